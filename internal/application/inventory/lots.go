package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/application/audit"
	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

// CreateLotInput entrada para registrar un lote nuevo con stock inicial.
type CreateLotInput struct {
	CompanyID       string
	UserID          string
	ItemID          string
	LotNumber       string
	SerialNumber    string
	Quantity        decimal.Decimal
	LocationID      string
	ExpirationDate  *time.Time
	ManufactureDate *time.Time
}

// CreateLot crea un lote y su stock inicial en una sola transacción: fila del
// lote, cantidad por ubicación, total del ítem y el movimiento receive que
// justifica la entrada. Falla con ErrDuplicateLotNumber si el número ya
// existe para la empresa+ítem y con ErrInvalidQuantity si la cantidad no es positiva.
func (uc *LedgerUseCase) CreateLot(ctx context.Context, input CreateLotInput) (*entity.ItemLot, error) {
	if input.ItemID == "" || input.LotNumber == "" || input.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.IsPositive() {
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
	if !item.LotTracked {
		return nil, domain.ErrInvalidInput
	}
	if loc, err := uc.locationRepo.GetByID(input.LocationID); err != nil {
		return nil, err
	} else if loc == nil || loc.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.lotRepo.GetByLotNumber(input.CompanyID, input.ItemID, input.LotNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateLotNumber
	}

	now := time.Now()
	lot := &entity.ItemLot{
		ID:              uuid.New().String(),
		CompanyID:       input.CompanyID,
		ItemID:          input.ItemID,
		LotNumber:       input.LotNumber,
		SerialNumber:    input.SerialNumber,
		Quantity:        input.Quantity,
		LocationID:      input.LocationID,
		ExpirationDate:  input.ExpirationDate,
		ManufactureDate: input.ManufactureDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		lqRepo repository.LocationQuantityRepository,
		lotRepo repository.ItemLotRepository,
		itemRepo repository.ItemRepository,
		_ repository.BOMRepository,
	) error {
		locked, err := itemRepo.GetForUpdate(input.ItemID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		// El índice único (company, item, lot_number) respalda la verificación
		// previa contra inserciones concurrentes.
		if err := lotRepo.Create(lot); err != nil {
			return err
		}
		lq, err := lqRepo.GetForUpdate(input.ItemID, input.LocationID)
		if err != nil {
			return err
		}
		lq.Quantity = lq.Quantity.Add(input.Quantity)
		lq.UpdatedAt = now
		if err := lqRepo.Upsert(lq); err != nil {
			return err
		}
		if err := itemRepo.UpdateQuantity(locked.ID, locked.Quantity.Add(input.Quantity)); err != nil {
			return err
		}
		return movRepo.Create(&entity.StockMovement{
			CompanyID:       input.CompanyID,
			TransactionID:   uuid.New().String(),
			ItemID:          input.ItemID,
			Type:            entity.MovementTypeReceive,
			Quantity:        input.Quantity,
			ToLocationID:    input.LocationID,
			LotID:           lot.ID,
			ReferenceNumber: "LOT-" + input.LotNumber,
			CreatedAt:       now,
			CreatedBy:       input.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.emitLotAudit(ctx, input, lot.ID)
	return lot, nil
}

// LotView es un lote anotado con su clasificación por vencimiento.
type LotView struct {
	*entity.ItemLot
	State string
}

// ListLots lista los lotes de un ítem. Por defecto excluye los vencidos;
// includeExpired=true los incluye. La clasificación (active/expiring/expired)
// se deriva de la fecha de vencimiento, nunca se almacena.
func (uc *LedgerUseCase) ListLots(ctx context.Context, companyID, itemID string, includeExpired bool) ([]LotView, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	lots, err := uc.lotRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	today := time.Now()
	views := make([]LotView, 0, len(lots))
	for _, lot := range lots {
		if !includeExpired && lot.Expired(today) {
			continue
		}
		views = append(views, LotView{ItemLot: lot, State: lot.State(today)})
	}
	return views, nil
}

func (uc *LedgerUseCase) emitLotAudit(ctx context.Context, input CreateLotInput, lotID string) {
	event := audit.Event{
		CompanyID:  input.CompanyID,
		UserID:     input.UserID,
		Action:     "lot_created",
		EntityType: "item_lot",
		EntityID:   lotID,
		ExtraData: map[string]any{
			"item_id":    input.ItemID,
			"lot_number": input.LotNumber,
			"quantity":   input.Quantity.String(),
		},
	}
	if err := uc.auditSink.Emit(ctx, event); err != nil {
		logAuditFailure(err, lotID)
	}
}
