// Package ledger implementa el núcleo del libro de inventario: consumir y
// producir stock de un ítem en una ubicación dentro de una transacción abierta
// por el caller, manteniendo en la misma unidad atómica la fila de
// location_quantities, los lotes, el total denormalizado del ítem y el
// movimiento append-only que justifica el cambio.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a la transacción en curso.
type Repos struct {
	Movements  repository.StockMovementRepository
	Quantities repository.LocationQuantityRepository
	Lots       repository.ItemLotRepository
	Items      repository.ItemRepository
}

// MovementSpec describe los campos comunes de los movimientos que una
// operación va a registrar (tipo, agrupador, referencia, actor).
type MovementSpec struct {
	CompanyID     string
	TransactionID string
	Type          string
	Reference     string
	Notes         string
	CreatedBy     string
	Now           time.Time
}

// stockWriter es la estrategia de escritura según el modo del ítem: con o sin
// seguimiento por lote. Ambas cumplen el mismo contrato del libro.
type stockWriter interface {
	// consume resta qty repartida en lotes si aplica y registra los movimientos
	// negativos. Devuelve error si el stock (o el lote) no alcanza.
	consume(r Repos, item *entity.Item, locationID, lotID string, qty decimal.Decimal, spec MovementSpec) error
	// produce suma qty, asignándola a un lote si aplica, y registra el
	// movimiento positivo.
	produce(r Repos, item *entity.Item, locationID, lotID string, qty decimal.Decimal, spec MovementSpec) error
}

func writerFor(item *entity.Item) stockWriter {
	if item.LotTracked {
		return lotWriter{}
	}
	return plainWriter{}
}

// Consume resta qty del stock del ítem en la ubicación dada. El caller debe
// tener la fila del ítem bloqueada (GetForUpdate) dentro de la transacción;
// aquí se bloquea la fila de la ubicación, se verifica suficiencia, se asignan
// lotes y se registran los movimientos.
func Consume(r Repos, item *entity.Item, locationID, lotID string, qty decimal.Decimal, spec MovementSpec) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	lq, err := r.Quantities.GetForUpdate(item.ID, locationID)
	if err != nil {
		return err
	}
	if lq.Quantity.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	if err := writerFor(item).consume(r, item, locationID, lotID, qty, spec); err != nil {
		return err
	}
	lq.Quantity = lq.Quantity.Sub(qty)
	lq.UpdatedAt = spec.Now
	if err := r.Quantities.Upsert(lq); err != nil {
		return err
	}
	item.Quantity = item.Quantity.Sub(qty)
	return r.Items.UpdateQuantity(item.ID, item.Quantity)
}

// Produce suma qty al stock del ítem en la ubicación dada (misma disciplina
// transaccional que Consume).
func Produce(r Repos, item *entity.Item, locationID, lotID string, qty decimal.Decimal, spec MovementSpec) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	lq, err := r.Quantities.GetForUpdate(item.ID, locationID)
	if err != nil {
		return err
	}
	if err := writerFor(item).produce(r, item, locationID, lotID, qty, spec); err != nil {
		return err
	}
	lq.Quantity = lq.Quantity.Add(qty)
	lq.UpdatedAt = spec.Now
	if err := r.Quantities.Upsert(lq); err != nil {
		return err
	}
	item.Quantity = item.Quantity.Add(qty)
	return r.Items.UpdateQuantity(item.ID, item.Quantity)
}

// TransferLot traslada un lote completo a otra ubicación. Los lotes viven en
// una sola ubicación, por lo que el traslado parcial de un lote no existe:
// se exige la cantidad completa del lote.
func TransferLot(r Repos, item *entity.Item, lotID, toLocationID string, qty decimal.Decimal, spec MovementSpec) error {
	lot, err := r.Lots.GetForUpdate(lotID)
	if err != nil {
		return err
	}
	if lot == nil || lot.ItemID != item.ID {
		return domain.ErrNotFound
	}
	if !lot.Quantity.Equal(qty) {
		return fmt.Errorf("traslado de lote requiere la cantidad completa del lote: %w", domain.ErrInvalidInput)
	}
	fromLocationID := lot.LocationID

	from, err := r.Quantities.GetForUpdate(item.ID, fromLocationID)
	if err != nil {
		return err
	}
	if from.Quantity.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	to, err := r.Quantities.GetForUpdate(item.ID, toLocationID)
	if err != nil {
		return err
	}

	from.Quantity = from.Quantity.Sub(qty)
	to.Quantity = to.Quantity.Add(qty)
	from.UpdatedAt = spec.Now
	to.UpdatedAt = spec.Now
	if err := r.Quantities.Upsert(from); err != nil {
		return err
	}
	if err := r.Quantities.Upsert(to); err != nil {
		return err
	}
	if err := r.Lots.UpdateLocation(lot.ID, toLocationID); err != nil {
		return err
	}

	// Dos filas en el libro con el mismo TransactionID, como todo traslado.
	out := &entity.StockMovement{
		CompanyID:       spec.CompanyID,
		TransactionID:   spec.TransactionID,
		ItemID:          item.ID,
		Type:            spec.Type,
		Quantity:        qty.Neg(),
		FromLocationID:  fromLocationID,
		LotID:           lot.ID,
		ReferenceNumber: spec.Reference,
		Notes:           spec.Notes,
		CreatedAt:       spec.Now,
		CreatedBy:       spec.CreatedBy,
	}
	if err := r.Movements.Create(out); err != nil {
		return err
	}
	in := &entity.StockMovement{
		CompanyID:       spec.CompanyID,
		TransactionID:   spec.TransactionID,
		ItemID:          item.ID,
		Type:            spec.Type,
		Quantity:        qty,
		ToLocationID:    toLocationID,
		LotID:           lot.ID,
		ReferenceNumber: spec.Reference,
		Notes:           spec.Notes,
		CreatedAt:       spec.Now,
		CreatedBy:       spec.CreatedBy,
	}
	return r.Movements.Create(in)
}
