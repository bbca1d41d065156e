package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/application/assembly"
	domaininv "github.com/jhoicas/ensambles-api/internal/domain/inventory"
)

// BuildRequest body para POST /api/assemblies/:id/build (y unbuild).
type BuildRequest struct {
	LocationID string          `json:"location_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	Notes      string          `json:"notes,omitempty"`
}

// ComponentAvailabilityDTO aporte de un componente al cálculo de disponibilidad.
type ComponentAvailabilityDTO struct {
	ComponentItemID  string          `json:"component_item_id"`
	ComponentSKU     string          `json:"component_sku"`
	ComponentName    string          `json:"component_name"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	AvailableQty     decimal.Decimal `json:"available_qty"`
	MaxFromComponent int64           `json:"max_from_component"`
	IsLimiting       bool            `json:"is_limiting"`
}

// AvailabilityResponse resultado del cálculo de disponibilidad de ensamble.
// has_bom distingue "sin receta" de "con receta pero sin stock".
type AvailabilityResponse struct {
	ItemID       string                     `json:"item_id"`
	HasBOM       bool                       `json:"has_bom"`
	MaxBuildable int64                      `json:"max_buildable"`
	Components   []ComponentAvailabilityDTO `json:"components"`
}

// ToAvailabilityResponse mapea el cálculo de dominio.
func ToAvailabilityResponse(itemID string, a domaininv.Availability) AvailabilityResponse {
	out := AvailabilityResponse{
		ItemID:       itemID,
		HasBOM:       a.HasBOM,
		MaxBuildable: a.MaxBuildable,
		Components:   make([]ComponentAvailabilityDTO, 0, len(a.Components)),
	}
	for _, c := range a.Components {
		out.Components = append(out.Components, ComponentAvailabilityDTO{
			ComponentItemID:  c.ComponentItemID,
			ComponentSKU:     c.ComponentSKU,
			ComponentName:    c.ComponentName,
			QuantityRequired: c.QuantityRequired,
			AvailableQty:     c.AvailableQty,
			MaxFromComponent: c.MaxFromComponent,
			IsLimiting:       c.IsLimiting,
		})
	}
	return out
}

// ComponentConsumptionDTO detalle de lo consumido/devuelto por componente.
type ComponentConsumptionDTO struct {
	ComponentItemID string          `json:"component_item_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	NewQuantity     decimal.Decimal `json:"new_quantity"`
}

// BuildResponse resultado de un Build o Unbuild exitoso.
type BuildResponse struct {
	TransactionID     string                    `json:"transaction_id"`
	Quantity          decimal.Decimal           `json:"quantity"`
	NewParentQuantity decimal.Decimal           `json:"new_parent_quantity"`
	Components        []ComponentConsumptionDTO `json:"components"`
	Message           string                    `json:"message"`
}

// ComponentShortageDTO componente que impide el ensamble solicitado.
type ComponentShortageDTO struct {
	ComponentItemID  string          `json:"component_item_id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	Available        decimal.Decimal `json:"available"`
	MaxFromComponent int64           `json:"max_from_component"`
}

// ToBuildResponse mapea el resultado del ejecutor.
func ToBuildResponse(r *assembly.BuildResult) BuildResponse {
	out := BuildResponse{
		TransactionID:     r.TransactionID,
		Quantity:          r.Quantity,
		NewParentQuantity: r.NewParentQuantity,
		Components:        make([]ComponentConsumptionDTO, 0, len(r.Components)),
		Message:           r.Message,
	}
	for _, c := range r.Components {
		out.Components = append(out.Components, ComponentConsumptionDTO{
			ComponentItemID: c.ComponentItemID,
			SKU:             c.SKU,
			Name:            c.Name,
			Quantity:        c.Quantity,
			NewQuantity:     c.NewQuantity,
		})
	}
	return out
}

// ToShortageDTOs mapea los faltantes de un Build infactible.
func ToShortageDTOs(shortages []assembly.ComponentShortage) []ComponentShortageDTO {
	out := make([]ComponentShortageDTO, 0, len(shortages))
	for _, s := range shortages {
		out = append(out, ComponentShortageDTO{
			ComponentItemID:  s.ComponentItemID,
			SKU:              s.SKU,
			Name:             s.Name,
			QuantityRequired: s.QuantityRequired,
			Available:        s.Available,
			MaxFromComponent: s.MaxFromComponent,
		})
	}
	return out
}
