package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// AddComponentRequest entrada para agregar una línea a la lista de materiales.
type AddComponentRequest struct {
	ComponentItemID  string          `json:"component_item_id" validate:"required"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	UnitMeasure      string          `json:"unit_measure,omitempty"`
	DisplayOrder     int             `json:"display_order,omitempty"`
}

// UpdateComponentRequest entrada para editar una línea (el par
// padre→componente es inmutable).
type UpdateComponentRequest struct {
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	UnitMeasure      string          `json:"unit_measure,omitempty"`
	DisplayOrder     int             `json:"display_order,omitempty"`
}

// BOMComponentDTO línea BOM anotada con los datos actuales del componente.
type BOMComponentDTO struct {
	LineID           string          `json:"line_id"`
	ComponentItemID  string          `json:"component_item_id"`
	ComponentSKU     string          `json:"component_sku"`
	ComponentName    string          `json:"component_name"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	UnitMeasure      string          `json:"unit_measure,omitempty"`
	DisplayOrder     int             `json:"display_order"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	AvailableQty     decimal.Decimal `json:"available_qty"`
	LotTracked       bool            `json:"lot_tracked"`
}

// WhereUsedDTO un ensamble que referencia al componente consultado.
type WhereUsedDTO struct {
	LineID           string          `json:"line_id"`
	ParentItemID     string          `json:"parent_item_id"`
	ParentSKU        string          `json:"parent_sku"`
	ParentName       string          `json:"parent_name"`
	ParentQuantity   decimal.Decimal `json:"parent_quantity"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

// ToBOMComponentDTOs mapea las líneas anotadas.
func ToBOMComponentDTOs(components []entity.BOMComponent) []BOMComponentDTO {
	out := make([]BOMComponentDTO, 0, len(components))
	for _, c := range components {
		out = append(out, BOMComponentDTO{
			LineID:           c.ID,
			ComponentItemID:  c.ComponentItemID,
			ComponentSKU:     c.ComponentSKU,
			ComponentName:    c.ComponentName,
			QuantityRequired: c.QuantityRequired,
			UnitMeasure:      c.UnitMeasure,
			DisplayOrder:     c.DisplayOrder,
			UnitPrice:        c.UnitPrice,
			AvailableQty:     c.AvailableQty,
			LotTracked:       c.LotTracked,
		})
	}
	return out
}

// ToWhereUsedDTOs mapea el índice inverso.
func ToWhereUsedDTOs(entries []entity.WhereUsedEntry) []WhereUsedDTO {
	out := make([]WhereUsedDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, WhereUsedDTO{
			LineID:           e.BOMLineID,
			ParentItemID:     e.ParentItemID,
			ParentSKU:        e.ParentSKU,
			ParentName:       e.ParentName,
			ParentQuantity:   e.ParentQuantity,
			QuantityRequired: e.QuantityRequired,
		})
	}
	return out
}
