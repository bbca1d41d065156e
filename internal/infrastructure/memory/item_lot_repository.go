package memory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ensambles-api/internal/domain/inventory"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.ItemLotRepository = (*ItemLotRepo)(nil)

// ItemLotRepo implementación en memoria de ItemLotRepository.
type ItemLotRepo struct {
	s *Store
	d *data
}

// NewItemLotRepository construye el repo atado al almacén.
func NewItemLotRepository(s *Store) *ItemLotRepo {
	return &ItemLotRepo{s: s}
}

func (r *ItemLotRepo) Create(lot *entity.ItemLot) error {
	d, release := view(r.s, r.d)
	defer release()
	for _, existing := range d.lots {
		if existing.CompanyID == lot.CompanyID && existing.ItemID == lot.ItemID && existing.LotNumber == lot.LotNumber {
			return domain.ErrDuplicateLotNumber
		}
	}
	cp := *lot
	d.lots[lot.ID] = &cp
	return nil
}

func (r *ItemLotRepo) GetByID(id string) (*entity.ItemLot, error) {
	d, release := view(r.s, r.d)
	defer release()
	lot, ok := d.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *lot
	return &cp, nil
}

func (r *ItemLotRepo) GetByLotNumber(companyID, itemID, lotNumber string) (*entity.ItemLot, error) {
	d, release := view(r.s, r.d)
	defer release()
	for _, lot := range d.lots {
		if lot.CompanyID == companyID && lot.ItemID == itemID && lot.LotNumber == lotNumber {
			cp := *lot
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID: el mutex del almacén serializa a los escritores.
func (r *ItemLotRepo) GetForUpdate(id string) (*entity.ItemLot, error) {
	return r.GetByID(id)
}

func (r *ItemLotRepo) ListByItem(itemID string) ([]*entity.ItemLot, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []*entity.ItemLot
	for _, lot := range d.lots {
		if lot.ItemID == itemID {
			cp := *lot
			list = append(list, &cp)
		}
	}
	domaininv.SortByExpiration(list)
	return list, nil
}

func (r *ItemLotRepo) ListByItemAndLocation(itemID, locationID string) ([]*entity.ItemLot, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []*entity.ItemLot
	for _, lot := range d.lots {
		if lot.ItemID == itemID && lot.LocationID == locationID {
			cp := *lot
			list = append(list, &cp)
		}
	}
	domaininv.SortByExpiration(list)
	return list, nil
}

func (r *ItemLotRepo) UpdateQuantity(lotID string, quantity decimal.Decimal) error {
	d, release := view(r.s, r.d)
	defer release()
	lot, ok := d.lots[lotID]
	if !ok {
		return domain.ErrNotFound
	}
	lot.Quantity = quantity
	return nil
}

func (r *ItemLotRepo) UpdateLocation(lotID, locationID string) error {
	d, release := view(r.s, r.d)
	defer release()
	lot, ok := d.lots[lotID]
	if !ok {
		return domain.ErrNotFound
	}
	lot.LocationID = locationID
	return nil
}
