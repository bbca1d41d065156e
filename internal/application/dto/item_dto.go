package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitMeasure  string          `json:"unit_measure"`
	LotTracked   bool            `json:"lot_tracked"`
}

// UpdateItemRequest entrada para actualizar un ítem (sin SKU ni Quantity:
// el SKU es inmutable y la cantidad solo la mutan los movimientos del libro).
type UpdateItemRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitMeasure  string          `json:"unit_measure"`
	Discontinued bool            `json:"discontinued"`
}

// ItemResponse salida de un ítem; Status se deriva de stock vs. punto de reorden.
type ItemResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitMeasure  string          `json:"unit_measure"`
	LotTracked   bool            `json:"lot_tracked"`
	Discontinued bool            `json:"discontinued"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToItemResponse mapea la entidad a su DTO de salida.
func ToItemResponse(item *entity.Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		CompanyID:    item.CompanyID,
		SKU:          item.SKU,
		Name:         item.Name,
		Description:  item.Description,
		Quantity:     item.Quantity,
		ReorderPoint: item.ReorderPoint,
		UnitPrice:    item.UnitPrice,
		UnitMeasure:  item.UnitMeasure,
		LotTracked:   item.LotTracked,
		Discontinued: item.Discontinued,
		Status:       item.Status(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// LocationQuantityDTO stock de un ítem en una ubicación.
type LocationQuantityDTO struct {
	LocationID  string          `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	BinLocation string          `json:"bin_location,omitempty"`
}

// ItemStockResponse ítem con su desglose de stock por ubicación.
type ItemStockResponse struct {
	Item      ItemResponse          `json:"item"`
	Locations []LocationQuantityDTO `json:"locations"`
}

// ToLocationQuantityDTOs mapea el desglose por ubicación.
func ToLocationQuantityDTOs(lqs []*entity.LocationQuantity) []LocationQuantityDTO {
	out := make([]LocationQuantityDTO, 0, len(lqs))
	for _, lq := range lqs {
		out = append(out, LocationQuantityDTO{
			LocationID:  lq.LocationID,
			Quantity:    lq.Quantity,
			BinLocation: lq.BinLocation,
		})
	}
	return out
}
