package repository

import "github.com/jhoicas/ensambles-api/internal/domain/entity"

// WorkOrderRepository define el puerto de persistencia para órdenes de trabajo.
type WorkOrderRepository interface {
	Create(order *entity.WorkOrder) error
	GetByID(id string) (*entity.WorkOrder, error)
	GetForUpdate(id string) (*entity.WorkOrder, error)
	ListByCompany(companyID string, status string, limit, offset int) ([]*entity.WorkOrder, error)
	Update(order *entity.WorkOrder) error
}
