package dto

import (
	"time"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// CreateLocationRequest entrada para crear una ubicación/bodega.
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToLocationResponse mapea la entidad a su DTO de salida.
func ToLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		CompanyID: l.CompanyID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
