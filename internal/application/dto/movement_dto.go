package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// receive/ship/adjust/count usan location_id; transfer usa from/to.
// Para count, quantity es la cantidad física contada (se registra el delta).
type RegisterMovementRequest struct {
	ItemID         string          `json:"item_id" validate:"required"`
	Type           string          `json:"type" validate:"required,oneof=receive ship transfer adjust count"`
	Quantity       decimal.Decimal `json:"quantity"`
	LocationID     string          `json:"location_id,omitempty"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
	LotID          string          `json:"lot_id,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// UpdatedQuantitiesResponse cantidades resultantes tras aplicar un movimiento.
type UpdatedQuantitiesResponse struct {
	ItemID        string                `json:"item_id"`
	TotalQuantity decimal.Decimal       `json:"total_quantity"`
	Locations     []LocationQuantityDTO `json:"locations"`
}

// MovementDTO una fila del historial con su saldo acumulado.
type MovementDTO struct {
	ID             string          `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
	LotID          string          `json:"lot_id,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by"`
}

// HistoryResponse página del historial de movimientos de un ítem.
type HistoryResponse struct {
	ItemID    string        `json:"item_id"`
	Movements []MovementDTO `json:"movements"`
	Page      PageResponse  `json:"page"`
}

// ToMovementDTOs mapea las filas del historial.
func ToMovementDTOs(movements []*entity.MovementWithBalance) []MovementDTO {
	out := make([]MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, MovementDTO{
			ID:             m.ID,
			TransactionID:  m.TransactionID,
			Type:           m.Type,
			Quantity:       m.Quantity,
			FromLocationID: m.FromLocationID,
			ToLocationID:   m.ToLocationID,
			LotID:          m.LotID,
			Reference:      m.ReferenceNumber,
			Notes:          m.Notes,
			RunningBalance: m.RunningBalance,
			CreatedAt:      m.CreatedAt,
			CreatedBy:      m.CreatedBy,
		})
	}
	return out
}
