package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrInvalidQuantity        = errors.New("cantidad inválida: debe ser mayor que cero")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInsufficientComponents = errors.New("componentes insuficientes para el ensamble")
	ErrInsufficientParent     = errors.New("stock insuficiente del ensamble para desensamblar")
	ErrDuplicateLotNumber     = errors.New("número de lote ya registrado para el producto")
	ErrInvalidComponent       = errors.New("un ensamble no puede contener su propio ítem como componente")
	ErrCyclicBOM              = errors.New("la lista de materiales formaría un ciclo")
	ErrContention             = errors.New("no se pudo obtener el bloqueo de fila; reintentar")
	ErrInvalidTransition      = errors.New("transición de estado no permitida")
)
