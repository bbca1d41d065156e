package workorder

import (
	"context"

	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// del libro más el de órdenes de trabajo, para que registrar cantidad
// completada y ejecutar el Build asociado sea una sola unidad atómica.
type TxRunner interface {
	RunWorkOrder(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		lqRepo repository.LocationQuantityRepository,
		lotRepo repository.ItemLotRepository,
		itemRepo repository.ItemRepository,
		bomRepo repository.BOMRepository,
		woRepo repository.WorkOrderRepository,
	) error) error
}
