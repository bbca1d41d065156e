package repository

import "github.com/jhoicas/ensambles-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para ubicaciones/bodegas.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	ListByCompany(companyID string) ([]*entity.Location, error)
}
