package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// CreateWorkOrderRequest entrada para crear una orden de trabajo (nace en draft).
type CreateWorkOrderRequest struct {
	OrderNumber     string          `json:"order_number" validate:"required,min=1,max=100"`
	ItemID          string          `json:"item_id" validate:"required"`
	LocationID      string          `json:"location_id" validate:"required"`
	QuantityPlanned decimal.Decimal `json:"quantity_planned"`
	Notes           string          `json:"notes,omitempty"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
}

// TransitionWorkOrderRequest entrada para mover la orden de estado.
type TransitionWorkOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress on_hold completed cancelled"`
}

// CompleteWorkOrderRequest entrada para registrar cantidad completada.
type CompleteWorkOrderRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes,omitempty"`
}

// WorkOrderResponse salida de una orden de trabajo.
type WorkOrderResponse struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"order_number"`
	ItemID            string          `json:"item_id"`
	LocationID        string          `json:"location_id"`
	QuantityPlanned   decimal.Decimal `json:"quantity_planned"`
	QuantityCompleted decimal.Decimal `json:"quantity_completed"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	DueDate           *time.Time      `json:"due_date,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	CreatedBy         string          `json:"created_by"`
}

// ToWorkOrderResponse mapea la entidad a su DTO de salida.
func ToWorkOrderResponse(w *entity.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		ID:                w.ID,
		OrderNumber:       w.OrderNumber,
		ItemID:            w.ItemID,
		LocationID:        w.LocationID,
		QuantityPlanned:   w.QuantityPlanned,
		QuantityCompleted: w.QuantityCompleted,
		Status:            w.Status,
		Notes:             w.Notes,
		DueDate:           w.DueDate,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
		CreatedBy:         w.CreatedBy,
	}
}
