package memory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación en memoria del libro de movimientos.
// Append-only: el slice conserva el orden de aplicación.
type StockMovementRepo struct {
	s *Store
	d *data
}

// NewStockMovementRepository construye el repo atado al almacén.
func NewStockMovementRepository(s *Store) *StockMovementRepo {
	return &StockMovementRepo{s: s}
}

func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	d, release := view(r.s, r.d)
	defer release()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	cp := *m
	d.movements = append(d.movements, &cp)
	return nil
}

func (r *StockMovementRepo) ListByItem(itemID string, limit, offset int) ([]*entity.MovementWithBalance, error) {
	d, release := view(r.s, r.d)
	defer release()

	// Saldo acumulado en orden de aplicación, luego se invierte para el
	// historial (más reciente primero) y se pagina.
	balance := decimal.Zero
	var asc []*entity.MovementWithBalance
	for _, m := range d.movements {
		if m.ItemID != itemID {
			continue
		}
		balance = balance.Add(m.Quantity)
		asc = append(asc, &entity.MovementWithBalance{StockMovement: *m, RunningBalance: balance})
	}
	desc := make([]*entity.MovementWithBalance, len(asc))
	for i, m := range asc {
		desc[len(asc)-1-i] = m
	}
	return paginate(desc, limit, offset), nil
}

func (r *StockMovementRepo) ListByItemAsc(itemID string) ([]*entity.StockMovement, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []*entity.StockMovement
	for _, m := range d.movements {
		if m.ItemID == itemID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}
