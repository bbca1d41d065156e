package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.LocationQuantityRepository = (*LocationQuantityRepo)(nil)

// LocationQuantityRepo implementación en memoria de LocationQuantityRepository.
type LocationQuantityRepo struct {
	s *Store
	d *data
}

// NewLocationQuantityRepository construye el repo atado al almacén.
func NewLocationQuantityRepository(s *Store) *LocationQuantityRepo {
	return &LocationQuantityRepo{s: s}
}

// Get devuelve el stock del ítem en la ubicación; sin fila, cantidad cero.
func (r *LocationQuantityRepo) Get(itemID, locationID string) (*entity.LocationQuantity, error) {
	d, release := view(r.s, r.d)
	defer release()
	lq, ok := d.quantities[qtyKey(itemID, locationID)]
	if !ok {
		return &entity.LocationQuantity{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
	}
	cp := *lq
	return &cp, nil
}

// GetForUpdate equivale a Get: el mutex del almacén serializa a los escritores.
func (r *LocationQuantityRepo) GetForUpdate(itemID, locationID string) (*entity.LocationQuantity, error) {
	return r.Get(itemID, locationID)
}

func (r *LocationQuantityRepo) Upsert(lq *entity.LocationQuantity) error {
	d, release := view(r.s, r.d)
	defer release()
	cp := *lq
	d.quantities[qtyKey(lq.ItemID, lq.LocationID)] = &cp
	return nil
}

func (r *LocationQuantityRepo) ListByItem(itemID string) ([]*entity.LocationQuantity, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []*entity.LocationQuantity
	for _, lq := range d.quantities {
		if lq.ItemID == itemID {
			cp := *lq
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LocationID < list[j].LocationID })
	return list, nil
}
