// Package workorder implementa el ciclo de vida de órdenes de producción:
// draft → pending → in_progress → {on_hold ↔ in_progress} → completed|cancelled.
// Al registrar cantidad completada invoca Build como suboperación dentro de la
// misma transacción.
package workorder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/application/assembly"
	"github.com/jhoicas/ensambles-api/internal/application/audit"
	"github.com/jhoicas/ensambles-api/internal/application/ledger"
	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

// WorkOrderUseCase administra órdenes de trabajo de ensamble.
type WorkOrderUseCase struct {
	txRunner   TxRunner
	woRepo     repository.WorkOrderRepository
	itemRepo   repository.ItemRepository
	locRepo    repository.LocationRepository
	assemblyUC *assembly.AssemblyUseCase
	auditSink  audit.Sink
}

// NewWorkOrderUseCase construye el caso de uso.
func NewWorkOrderUseCase(
	txRunner TxRunner,
	woRepo repository.WorkOrderRepository,
	itemRepo repository.ItemRepository,
	locRepo repository.LocationRepository,
	assemblyUC *assembly.AssemblyUseCase,
	auditSink audit.Sink,
) *WorkOrderUseCase {
	return &WorkOrderUseCase{
		txRunner:   txRunner,
		woRepo:     woRepo,
		itemRepo:   itemRepo,
		locRepo:    locRepo,
		assemblyUC: assemblyUC,
		auditSink:  auditSink,
	}
}

// CreateInput entrada para crear una orden (nace en estado draft).
type CreateInput struct {
	CompanyID       string
	UserID          string
	OrderNumber     string
	ItemID          string
	LocationID      string
	QuantityPlanned decimal.Decimal
	Notes           string
	DueDate         *time.Time
}

// Create registra una orden de trabajo en estado draft.
func (uc *WorkOrderUseCase) Create(ctx context.Context, input CreateInput) (*entity.WorkOrder, error) {
	if input.ItemID == "" || input.LocationID == "" || input.OrderNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.QuantityPlanned.IsPositive() || !input.QuantityPlanned.IsInteger() {
		return nil, domain.ErrInvalidQuantity
	}
	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}
	loc, err := uc.locRepo.GetByID(input.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	order := &entity.WorkOrder{
		ID:              uuid.New().String(),
		CompanyID:       input.CompanyID,
		OrderNumber:     input.OrderNumber,
		ItemID:          input.ItemID,
		LocationID:      input.LocationID,
		QuantityPlanned: input.QuantityPlanned,
		Status:          entity.WorkOrderDraft,
		Notes:           input.Notes,
		DueDate:         input.DueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       input.UserID,
	}
	if err := uc.woRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Transition mueve la orden a un nuevo estado si la transición está permitida;
// de lo contrario falla con ErrInvalidTransition sin cambiar nada.
func (uc *WorkOrderUseCase) Transition(ctx context.Context, companyID, orderID, toStatus string) (*entity.WorkOrder, error) {
	order, err := uc.ownedOrder(companyID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanTransition(toStatus) {
		return nil, fmt.Errorf("de %s a %s: %w", order.Status, toStatus, domain.ErrInvalidTransition)
	}
	order.Status = toStatus
	order.UpdatedAt = time.Now()
	if err := uc.woRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// CompleteInput entrada para registrar cantidad completada de una orden.
type CompleteInput struct {
	CompanyID string
	UserID    string
	OrderID   string
	Quantity  decimal.Decimal
	Notes     string
}

// Complete registra cantidad completada en una orden en in_progress: ejecuta
// el Build del ensamble y acumula la cantidad en la orden dentro de la misma
// transacción; si el Build falla (componentes insuficientes), la orden queda
// intacta. Cuando lo completado alcanza lo planeado, la orden pasa a completed.
func (uc *WorkOrderUseCase) Complete(ctx context.Context, input CompleteInput) (*entity.WorkOrder, *assembly.BuildResult, error) {
	if !input.Quantity.IsPositive() || !input.Quantity.IsInteger() {
		return nil, nil, domain.ErrInvalidQuantity
	}
	order, err := uc.ownedOrder(input.CompanyID, input.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order.Status != entity.WorkOrderInProgress {
		return nil, nil, fmt.Errorf("la orden no está en progreso: %w", domain.ErrInvalidTransition)
	}

	txID := uuid.New().String()
	now := time.Now()
	var buildResult *assembly.BuildResult
	var updated *entity.WorkOrder
	err = uc.txRunner.RunWorkOrder(ctx, func(
		movRepo repository.StockMovementRepository,
		lqRepo repository.LocationQuantityRepository,
		lotRepo repository.ItemLotRepository,
		itemRepo repository.ItemRepository,
		bomRepo repository.BOMRepository,
		woRepo repository.WorkOrderRepository,
	) error {
		locked, err := woRepo.GetForUpdate(order.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.Status != entity.WorkOrderInProgress {
			return fmt.Errorf("la orden no está en progreso: %w", domain.ErrInvalidTransition)
		}

		repos := ledger.Repos{Movements: movRepo, Quantities: lqRepo, Lots: lotRepo, Items: itemRepo}
		buildResult, err = uc.assemblyUC.BuildInTx(repos, bomRepo, assembly.BuildInput{
			CompanyID:  input.CompanyID,
			UserID:     input.UserID,
			ItemID:     locked.ItemID,
			LocationID: locked.LocationID,
			Quantity:   input.Quantity,
			Notes:      fmt.Sprintf("orden de trabajo %s", locked.OrderNumber),
		}, txID, now)
		if err != nil {
			return err
		}

		locked.QuantityCompleted = locked.QuantityCompleted.Add(input.Quantity)
		if locked.QuantityCompleted.GreaterThanOrEqual(locked.QuantityPlanned) {
			locked.Status = entity.WorkOrderCompleted
		}
		locked.UpdatedAt = now
		if err := woRepo.Update(locked); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	uc.emitAudit(ctx, input, updated, txID)
	return updated, buildResult, nil
}

// GetByID devuelve una orden de la empresa.
func (uc *WorkOrderUseCase) GetByID(ctx context.Context, companyID, orderID string) (*entity.WorkOrder, error) {
	return uc.ownedOrder(companyID, orderID)
}

// List lista las órdenes de la empresa, opcionalmente filtradas por estado.
func (uc *WorkOrderUseCase) List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.WorkOrder, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.woRepo.ListByCompany(companyID, status, limit, offset)
}

func (uc *WorkOrderUseCase) ownedOrder(companyID, orderID string) (*entity.WorkOrder, error) {
	order, err := uc.woRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (uc *WorkOrderUseCase) emitAudit(ctx context.Context, input CompleteInput, order *entity.WorkOrder, txID string) {
	event := audit.Event{
		CompanyID:  input.CompanyID,
		UserID:     input.UserID,
		Action:     "work_order_completed_quantity",
		EntityType: "work_order",
		EntityID:   order.ID,
		ExtraData: map[string]any{
			"transaction_id":     txID,
			"quantity":           input.Quantity.String(),
			"quantity_completed": order.QuantityCompleted.String(),
			"status":             order.Status,
		},
	}
	if err := uc.auditSink.Emit(ctx, event); err != nil {
		log.Warn().Err(err).Str("work_order_id", order.ID).Msg("no se pudo emitir evento de auditoría")
	}
}
