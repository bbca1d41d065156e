package inventory

import (
	"context"

	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de
// inventario y el motor de ensambles.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		lqRepo repository.LocationQuantityRepository,
		lotRepo repository.ItemLotRepository,
		itemRepo repository.ItemRepository,
		bomRepo repository.BOMRepository,
	) error) error
}
