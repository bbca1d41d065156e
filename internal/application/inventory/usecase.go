package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/application/audit"
	"github.com/jhoicas/ensambles-api/internal/application/ledger"
	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
	"github.com/jhoicas/ensambles-api/pkg/metrics"
)

// LedgerUseCase registra movimientos de inventario de forma transaccional
// (receive, ship, transfer, adjust, count) con bloqueo de fila y Commit/Rollback,
// y expone el historial con saldo acumulado.
type LedgerUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	movRepo      repository.StockMovementRepository
	lotRepo      repository.ItemLotRepository
	auditSink    audit.Sink
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	movRepo repository.StockMovementRepository,
	lotRepo repository.ItemLotRepository,
	auditSink audit.Sink,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		movRepo:      movRepo,
		lotRepo:      lotRepo,
		auditSink:    auditSink,
	}
}

// MovementInput entrada para registrar un movimiento de inventario.
// receive/ship/adjust/count usan LocationID; transfer usa From/ToLocationID.
// Para count, Quantity es la cantidad física contada (se registra el delta).
type MovementInput struct {
	CompanyID      string
	UserID         string
	ItemID         string
	Type           string
	Quantity       decimal.Decimal
	LocationID     string
	FromLocationID string
	ToLocationID   string
	LotID          string
	Reference      string
	Notes          string
}

// UpdatedQuantities es el resultado de aplicar un movimiento: el total del
// ítem y las cantidades en las ubicaciones afectadas, leídas dentro de la
// misma transacción que las mutó.
type UpdatedQuantities struct {
	ItemID        string
	TotalQuantity decimal.Decimal
	Locations     []*entity.LocationQuantity
}

// RegisterMovement valida la entrada, inicia una transacción, bloquea las
// filas involucradas, aplica el movimiento según su tipo y hace Commit o
// Rollback. Ninguna violación de restricción deja escrituras parciales.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*UpdatedQuantities, error) {
	if err := uc.validate(input); err != nil {
		return nil, err
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
	if err := uc.checkLocations(input); err != nil {
		return nil, err
	}

	now := time.Now()
	spec := ledger.MovementSpec{
		CompanyID:     input.CompanyID,
		TransactionID: uuid.New().String(),
		Type:          input.Type,
		Reference:     input.Reference,
		Notes:         input.Notes,
		CreatedBy:     input.UserID,
		Now:           now,
	}

	var result *UpdatedQuantities
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		lqRepo repository.LocationQuantityRepository,
		lotRepo repository.ItemLotRepository,
		itemRepo repository.ItemRepository,
		_ repository.BOMRepository,
	) error {
		repos := ledger.Repos{Movements: movRepo, Quantities: lqRepo, Lots: lotRepo, Items: itemRepo}

		// Bloquea la fila del ítem: serializa las mutaciones del total
		// denormalizado entre movimientos concurrentes del mismo ítem.
		locked, err := itemRepo.GetForUpdate(input.ItemID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}

		affected, err := uc.apply(repos, locked, input, spec)
		if err != nil {
			return err
		}

		result = &UpdatedQuantities{ItemID: locked.ID, TotalQuantity: locked.Quantity}
		for _, locID := range affected {
			lq, err := lqRepo.Get(locked.ID, locID)
			if err != nil {
				return err
			}
			result.Locations = append(result.Locations, lq)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MovementsTotal.WithLabelValues(input.Type).Inc()
	uc.emitAudit(ctx, input, spec.TransactionID)
	return result, nil
}

func (uc *LedgerUseCase) apply(repos ledger.Repos, item *entity.Item, input MovementInput, spec ledger.MovementSpec) (affected []string, err error) {
	switch input.Type {
	case entity.MovementTypeReceive:
		return []string{input.LocationID}, ledger.Produce(repos, item, input.LocationID, input.LotID, input.Quantity, spec)

	case entity.MovementTypeShip:
		return []string{input.LocationID}, ledger.Consume(repos, item, input.LocationID, input.LotID, input.Quantity, spec)

	case entity.MovementTypeAdjust:
		if input.Quantity.IsPositive() {
			return []string{input.LocationID}, ledger.Produce(repos, item, input.LocationID, input.LotID, input.Quantity, spec)
		}
		return []string{input.LocationID}, ledger.Consume(repos, item, input.LocationID, input.LotID, input.Quantity.Neg(), spec)

	case entity.MovementTypeCount:
		lq, err := repos.Quantities.GetForUpdate(item.ID, input.LocationID)
		if err != nil {
			return nil, err
		}
		delta := input.Quantity.Sub(lq.Quantity)
		switch {
		case delta.IsPositive():
			return []string{input.LocationID}, ledger.Produce(repos, item, input.LocationID, input.LotID, delta, spec)
		case delta.IsNegative():
			return []string{input.LocationID}, ledger.Consume(repos, item, input.LocationID, input.LotID, delta.Neg(), spec)
		default:
			// Conteo que coincide con el sistema: nada que corregir, sin filas.
			return []string{input.LocationID}, nil
		}

	case entity.MovementTypeTransfer:
		affected = []string{input.FromLocationID, input.ToLocationID}
		if input.LotID != "" {
			return affected, ledger.TransferLot(repos, item, input.LotID, input.ToLocationID, input.Quantity, spec)
		}
		if err := ledger.Consume(repos, item, input.FromLocationID, "", input.Quantity, spec); err != nil {
			return nil, err
		}
		return affected, ledger.Produce(repos, item, input.ToLocationID, "", input.Quantity, spec)
	}
	return nil, domain.ErrInvalidInput
}

func (uc *LedgerUseCase) validate(input MovementInput) error {
	switch input.Type {
	case entity.MovementTypeReceive, entity.MovementTypeShip:
		if input.ItemID == "" || input.LocationID == "" {
			return domain.ErrInvalidInput
		}
		if !input.Quantity.IsPositive() {
			return domain.ErrInvalidQuantity
		}
	case entity.MovementTypeAdjust:
		if input.ItemID == "" || input.LocationID == "" {
			return domain.ErrInvalidInput
		}
		if input.Quantity.IsZero() {
			return domain.ErrInvalidQuantity
		}
	case entity.MovementTypeCount:
		if input.ItemID == "" || input.LocationID == "" {
			return domain.ErrInvalidInput
		}
		if input.Quantity.IsNegative() {
			return domain.ErrInvalidQuantity
		}
	case entity.MovementTypeTransfer:
		if input.ItemID == "" || input.FromLocationID == "" || input.ToLocationID == "" {
			return domain.ErrInvalidInput
		}
		if input.FromLocationID == input.ToLocationID {
			return domain.ErrInvalidInput
		}
		if !input.Quantity.IsPositive() {
			return domain.ErrInvalidQuantity
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

func (uc *LedgerUseCase) checkLocations(input MovementInput) error {
	check := func(id string) error {
		loc, err := uc.locationRepo.GetByID(id)
		if err != nil {
			return err
		}
		if loc == nil || loc.CompanyID != input.CompanyID {
			return domain.ErrNotFound
		}
		return nil
	}
	if input.Type == entity.MovementTypeTransfer {
		if err := check(input.FromLocationID); err != nil {
			return err
		}
		return check(input.ToLocationID)
	}
	return check(input.LocationID)
}

func (uc *LedgerUseCase) emitAudit(ctx context.Context, input MovementInput, txID string) {
	event := audit.Event{
		CompanyID:  input.CompanyID,
		UserID:     input.UserID,
		Action:     "movement_applied",
		EntityType: "stock_movement",
		EntityID:   txID,
		ExtraData: map[string]any{
			"item_id":  input.ItemID,
			"type":     input.Type,
			"quantity": input.Quantity.String(),
		},
	}
	if err := uc.auditSink.Emit(ctx, event); err != nil {
		// La auditoría es best-effort: el libro ya quedó confirmado.
		log.Warn().Err(err).Str("tx_id", txID).Msg("no se pudo emitir evento de auditoría")
	}
}
