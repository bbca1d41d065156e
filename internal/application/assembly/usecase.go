// Package assembly implementa el motor de ensambles: disponibilidad
// (cuántas unidades se pueden construir con el stock de componentes) y las
// operaciones atómicas Build/Unbuild que convierten stock de componentes en
// stock del ensamble y viceversa, registrando todo en el libro de movimientos.
package assembly

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/application/audit"
	appinventory "github.com/jhoicas/ensambles-api/internal/application/inventory"
	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

// AssemblyUseCase resuelve disponibilidad y ejecuta Build/Unbuild.
type AssemblyUseCase struct {
	txRunner  appinventory.TxRunner
	itemRepo  repository.ItemRepository
	locRepo   repository.LocationRepository
	bomRepo   repository.BOMRepository
	auditSink audit.Sink
}

// NewAssemblyUseCase construye el caso de uso.
func NewAssemblyUseCase(
	txRunner appinventory.TxRunner,
	itemRepo repository.ItemRepository,
	locRepo repository.LocationRepository,
	bomRepo repository.BOMRepository,
	auditSink audit.Sink,
) *AssemblyUseCase {
	return &AssemblyUseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		locRepo:   locRepo,
		bomRepo:   bomRepo,
		auditSink: auditSink,
	}
}

// ComponentShortage detalla un componente que restringe (o impide) el ensamble.
type ComponentShortage struct {
	ComponentItemID  string
	SKU              string
	Name             string
	QuantityRequired decimal.Decimal
	Available        decimal.Decimal
	MaxFromComponent int64
}

// InsufficientComponentsError reporta qué componentes limitan un Build
// infactible, con detalle suficiente para un mensaje específico al usuario.
// Envuelve domain.ErrInsufficientComponents para errors.Is.
type InsufficientComponentsError struct {
	Shortages []ComponentShortage
}

func (e *InsufficientComponentsError) Error() string {
	skus := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		skus = append(skus, s.SKU)
	}
	return fmt.Sprintf("%v: componentes limitantes: %s",
		domain.ErrInsufficientComponents, strings.Join(skus, ", "))
}

func (e *InsufficientComponentsError) Unwrap() error {
	return domain.ErrInsufficientComponents
}
