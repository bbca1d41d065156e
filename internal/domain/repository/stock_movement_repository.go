package repository

import "github.com/jhoicas/ensambles-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos. Solo inserta: el libro es append-only; nunca hay Update/Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByItem pagina el historial en orden cronológico inverso, cada fila
	// anotada con el saldo acumulado del ítem tras aplicarla.
	ListByItem(itemID string, limit, offset int) ([]*entity.MovementWithBalance, error)
	// ListByItemAsc devuelve todos los movimientos del ítem en orden de
	// aplicación, para verificación por repetición (replay).
	ListByItemAsc(itemID string) ([]*entity.StockMovement, error)
}
