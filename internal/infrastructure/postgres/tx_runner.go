package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ensambles-api/internal/application/inventory"
	"github.com/jhoicas/ensambles-api/internal/application/workorder"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and workorder.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ workorder.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Cada tx
// fija lock_timeout: un SELECT FOR UPDATE que no obtiene el bloqueo dentro del
// plazo falla con 55P03, que los repositorios traducen a ErrContention
// (reintentable por el caller).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	lqRepo repository.LocationQuantityRepository,
	lotRepo repository.ItemLotRepository,
	itemRepo repository.ItemRepository,
	bomRepo repository.BOMRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SET LOCAL lock_timeout = '3s'`); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	movRepo := NewStockMovementRepository(tx)
	lqRepo := NewLocationQuantityRepository(tx)
	lotRepo := NewItemLotRepository(tx)
	itemRepo := NewItemRepository(tx)
	bomRepo := NewBOMRepository(tx)

	if err := fn(movRepo, lqRepo, lotRepo, itemRepo, bomRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunWorkOrder inicia una transacción con los repos del libro más el de
// órdenes de trabajo (para Complete, que ejecuta Build en la misma tx).
func (r *TxRunner) RunWorkOrder(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	lqRepo repository.LocationQuantityRepository,
	lotRepo repository.ItemLotRepository,
	itemRepo repository.ItemRepository,
	bomRepo repository.BOMRepository,
	woRepo repository.WorkOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SET LOCAL lock_timeout = '3s'`); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	movRepo := NewStockMovementRepository(tx)
	lqRepo := NewLocationQuantityRepository(tx)
	lotRepo := NewItemLotRepository(tx)
	itemRepo := NewItemRepository(tx)
	bomRepo := NewBOMRepository(tx)
	woRepo := NewWorkOrderRepository(tx)

	if err := fn(movRepo, lqRepo, lotRepo, itemRepo, bomRepo, woRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
