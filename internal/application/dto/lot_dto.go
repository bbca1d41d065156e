package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/application/inventory"
)

// CreateLotRequest entrada para registrar un lote con stock inicial.
type CreateLotRequest struct {
	LotNumber       string          `json:"lot_number" validate:"required,min=1,max=100"`
	SerialNumber    string          `json:"serial_number,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	LocationID      string          `json:"location_id" validate:"required"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
}

// LotResponse salida de un lote; State (active/expiring/expired) se deriva de
// la fecha de vencimiento al momento de la consulta.
type LotResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	LotNumber       string          `json:"lot_number"`
	SerialNumber    string          `json:"serial_number,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	LocationID      string          `json:"location_id"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
	State           string          `json:"state"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToLotResponses mapea las vistas de lote a sus DTOs.
func ToLotResponses(views []inventory.LotView) []LotResponse {
	out := make([]LotResponse, 0, len(views))
	for _, v := range views {
		out = append(out, LotResponse{
			ID:              v.ID,
			ItemID:          v.ItemID,
			LotNumber:       v.LotNumber,
			SerialNumber:    v.SerialNumber,
			Quantity:        v.Quantity,
			LocationID:      v.LocationID,
			ExpirationDate:  v.ExpirationDate,
			ManufactureDate: v.ManufactureDate,
			State:           v.State,
			CreatedAt:       v.CreatedAt,
		})
	}
	return out
}
