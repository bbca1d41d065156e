package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s *Store
	d *data
}

// NewItemRepository construye el repo atado al almacén.
func NewItemRepository(s *Store) *ItemRepo {
	return &ItemRepo{s: s}
}

func (r *ItemRepo) Create(item *entity.Item) error {
	d, release := view(r.s, r.d)
	defer release()
	for _, existing := range d.items {
		if existing.CompanyID == item.CompanyID && existing.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *item
	d.items[item.ID] = &cp
	return nil
}

func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	d, release := view(r.s, r.d)
	defer release()
	item, ok := d.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *ItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	d, release := view(r.s, r.d)
	defer release()
	for _, item := range d.items {
		if item.CompanyID == companyID && item.SKU == sku {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID: el mutex del almacén ya serializa a los
// escritores, igual que el bloqueo de fila en PostgreSQL.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

func (r *ItemRepo) Update(item *entity.Item) error {
	d, release := view(r.s, r.d)
	defer release()
	existing, ok := d.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Name = item.Name
	existing.Description = item.Description
	existing.ReorderPoint = item.ReorderPoint
	existing.UnitPrice = item.UnitPrice
	existing.UnitMeasure = item.UnitMeasure
	existing.Discontinued = item.Discontinued
	existing.UpdatedAt = item.UpdatedAt
	return nil
}

func (r *ItemRepo) UpdateQuantity(itemID string, quantity decimal.Decimal) error {
	d, release := view(r.s, r.d)
	defer release()
	existing, ok := d.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Quantity = quantity
	return nil
}

func (r *ItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []*entity.Item
	for _, item := range d.items {
		if item.CompanyID == companyID {
			cp := *item
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return paginate(list, limit, offset), nil
}

func (r *ItemRepo) ListLowStock(companyID string) ([]*entity.Item, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []*entity.Item
	for _, item := range d.items {
		if item.CompanyID == companyID && !item.Discontinued && item.Quantity.LessThanOrEqual(item.ReorderPoint) {
			cp := *item
			list = append(list, &cp)
		}
	}
	// Más crítico primero: punto de reorden cero al frente, luego por razón
	// stock/reorden ascendente, luego por SKU.
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		aZero, bZero := a.ReorderPoint.IsZero(), b.ReorderPoint.IsZero()
		if aZero != bZero {
			return aZero
		}
		if !aZero && !bZero {
			ra := a.Quantity.Div(a.ReorderPoint)
			rb := b.Quantity.Div(b.ReorderPoint)
			if !ra.Equal(rb) {
				return ra.LessThan(rb)
			}
		}
		return a.SKU < b.SKU
	})
	return list, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
