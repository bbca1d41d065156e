package memory

import (
	"context"

	"github.com/jhoicas/ensambles-api/internal/application/inventory"
	"github.com/jhoicas/ensambles-api/internal/application/workorder"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ workorder.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el callback sobre un clon del estado y, si no hay error,
// publica el clon como nuevo estado. Un error descarta el clon: mismo
// todo-o-nada que Commit/Rollback en PostgreSQL.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos atados a un clon del estado.
func (r *TxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	lqRepo repository.LocationQuantityRepository,
	lotRepo repository.ItemLotRepository,
	itemRepo repository.ItemRepository,
	bomRepo repository.BOMRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	clone := r.s.d.clone()
	err := fn(
		&StockMovementRepo{d: clone},
		&LocationQuantityRepo{d: clone},
		&ItemLotRepo{d: clone},
		&ItemRepo{d: clone},
		&BOMRepo{d: clone},
	)
	if err != nil {
		return err
	}
	r.s.d = clone
	return nil
}

// RunWorkOrder ejecuta fn con los repos del libro más el de órdenes de trabajo.
func (r *TxRunner) RunWorkOrder(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	lqRepo repository.LocationQuantityRepository,
	lotRepo repository.ItemLotRepository,
	itemRepo repository.ItemRepository,
	bomRepo repository.BOMRepository,
	woRepo repository.WorkOrderRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	clone := r.s.d.clone()
	err := fn(
		&StockMovementRepo{d: clone},
		&LocationQuantityRepo{d: clone},
		&ItemLotRepo{d: clone},
		&ItemRepo{d: clone},
		&BOMRepo{d: clone},
		&WorkOrderRepo{d: clone},
	)
	if err != nil {
		return err
	}
	r.s.d = clone
	return nil
}
