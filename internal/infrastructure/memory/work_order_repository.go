package memory

import (
	"sort"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo implementación en memoria de WorkOrderRepository.
type WorkOrderRepo struct {
	s *Store
	d *data
}

// NewWorkOrderRepository construye el repo atado al almacén.
func NewWorkOrderRepository(s *Store) *WorkOrderRepo {
	return &WorkOrderRepo{s: s}
}

func (r *WorkOrderRepo) Create(order *entity.WorkOrder) error {
	d, release := view(r.s, r.d)
	defer release()
	for _, existing := range d.workOrders {
		if existing.CompanyID == order.CompanyID && existing.OrderNumber == order.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *order
	d.workOrders[order.ID] = &cp
	return nil
}

func (r *WorkOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	d, release := view(r.s, r.d)
	defer release()
	order, ok := d.workOrders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

// GetForUpdate equivale a GetByID: el mutex del almacén serializa a los escritores.
func (r *WorkOrderRepo) GetForUpdate(id string) (*entity.WorkOrder, error) {
	return r.GetByID(id)
}

func (r *WorkOrderRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.WorkOrder, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []*entity.WorkOrder
	for _, order := range d.workOrders {
		if order.CompanyID != companyID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		cp := *order
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].OrderNumber > list[j].OrderNumber
	})
	return paginate(list, limit, offset), nil
}

func (r *WorkOrderRepo) Update(order *entity.WorkOrder) error {
	d, release := view(r.s, r.d)
	defer release()
	existing, ok := d.workOrders[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Status = order.Status
	existing.QuantityCompleted = order.QuantityCompleted
	existing.Notes = order.Notes
	existing.DueDate = order.DueDate
	existing.UpdatedAt = order.UpdatedAt
	return nil
}
