package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ensambles-api/internal/domain/inventory"
)

// plainWriter: ítems sin seguimiento por lote. Un movimiento por operación.
type plainWriter struct{}

func (plainWriter) consume(r Repos, item *entity.Item, locationID, _ string, qty decimal.Decimal, spec MovementSpec) error {
	return r.Movements.Create(movement(item, spec, qty.Neg(), locationID, "", ""))
}

func (plainWriter) produce(r Repos, item *entity.Item, locationID, _ string, qty decimal.Decimal, spec MovementSpec) error {
	return r.Movements.Create(movement(item, spec, qty, "", locationID, ""))
}

// lotWriter: ítems con seguimiento por lote. El consumo se reparte entre lotes
// por vencimiento más próximo primero (lotes sin vencimiento al final); cada
// asignación registra su propia fila en el libro, todas con el mismo
// TransactionID, para que el replay reconstruya también las cantidades por lote.
type lotWriter struct{}

func (lotWriter) consume(r Repos, item *entity.Item, locationID, lotID string, qty decimal.Decimal, spec MovementSpec) error {
	if lotID != "" {
		lot, err := r.Lots.GetForUpdate(lotID)
		if err != nil {
			return err
		}
		if lot == nil || lot.ItemID != item.ID || lot.LocationID != locationID {
			return domain.ErrNotFound
		}
		if lot.Quantity.LessThan(qty) {
			return domain.ErrInsufficientStock
		}
		if err := r.Lots.UpdateQuantity(lot.ID, lot.Quantity.Sub(qty)); err != nil {
			return err
		}
		return r.Movements.Create(movement(item, spec, qty.Neg(), locationID, "", lot.ID))
	}

	lots, err := r.Lots.ListByItemAndLocation(item.ID, locationID)
	if err != nil {
		return err
	}
	allocations, remaining := domaininv.AllocateFromLots(lots, qty)
	if remaining.IsPositive() {
		return domain.ErrInsufficientStock
	}
	byID := make(map[string]*entity.ItemLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}
	for _, alloc := range allocations {
		lot := byID[alloc.LotID]
		if err := r.Lots.UpdateQuantity(lot.ID, lot.Quantity.Sub(alloc.Quantity)); err != nil {
			return err
		}
		if err := r.Movements.Create(movement(item, spec, alloc.Quantity.Neg(), locationID, "", lot.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (lotWriter) produce(r Repos, item *entity.Item, locationID, lotID string, qty decimal.Decimal, spec MovementSpec) error {
	var target *entity.ItemLot
	if lotID != "" {
		lot, err := r.Lots.GetForUpdate(lotID)
		if err != nil {
			return err
		}
		if lot == nil || lot.ItemID != item.ID || lot.LocationID != locationID {
			return domain.ErrNotFound
		}
		target = lot
	} else {
		// Sin lote explícito: se devuelve al lote de vencimiento más próximo en
		// la ubicación; si no hay lotes, se crea uno nuevo para mantener la
		// suma de lotes.
		lots, err := r.Lots.ListByItemAndLocation(item.ID, locationID)
		if err != nil {
			return err
		}
		domaininv.SortByExpiration(lots)
		if len(lots) > 0 {
			target = lots[0]
		}
	}

	if target == nil {
		lot := &entity.ItemLot{
			ID:         uuid.New().String(),
			CompanyID:  spec.CompanyID,
			ItemID:     item.ID,
			LotNumber:  syntheticLotNumber(spec),
			Quantity:   qty,
			LocationID: locationID,
			CreatedAt:  spec.Now,
			UpdatedAt:  spec.Now,
		}
		if err := r.Lots.Create(lot); err != nil {
			return err
		}
		return r.Movements.Create(movement(item, spec, qty, "", locationID, lot.ID))
	}

	if err := r.Lots.UpdateQuantity(target.ID, target.Quantity.Add(qty)); err != nil {
		return err
	}
	return r.Movements.Create(movement(item, spec, qty, "", locationID, target.ID))
}

// syntheticLotNumber numera un lote creado implícitamente por un ingreso.
// Usa la referencia de la operación; si no hay, deriva del identificador de
// transacción para que el número nunca quede vacío ni colisione entre ingresos.
func syntheticLotNumber(spec MovementSpec) string {
	if spec.Reference != "" {
		return spec.Reference
	}
	txID := spec.TransactionID
	if len(txID) >= 8 {
		txID = txID[:8]
	}
	return "LOTE-" + txID
}

func movement(item *entity.Item, spec MovementSpec, qty decimal.Decimal, fromLoc, toLoc, lotID string) *entity.StockMovement {
	return &entity.StockMovement{
		CompanyID:       spec.CompanyID,
		TransactionID:   spec.TransactionID,
		ItemID:          item.ID,
		Type:            spec.Type,
		Quantity:        qty,
		FromLocationID:  fromLoc,
		ToLocationID:    toLoc,
		LotID:           lotID,
		ReferenceNumber: spec.Reference,
		Notes:           spec.Notes,
		CreatedAt:       spec.Now,
		CreatedBy:       spec.CreatedBy,
	}
}
