package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// ComponentAvailability describe el aporte de un componente al cálculo de
// disponibilidad de un ensamble.
type ComponentAvailability struct {
	ComponentItemID  string
	ComponentSKU     string
	ComponentName    string
	QuantityRequired decimal.Decimal
	AvailableQty     decimal.Decimal
	MaxFromComponent int64
	IsLimiting       bool
}

// Availability es el resultado del cálculo: el mayor N tal que cada componente
// tiene stock >= N * cantidad requerida. HasBOM distingue "sin receta" de
// "sin stock": un ítem sin líneas BOM no es ensamblable, no es cero.
type Availability struct {
	HasBOM       bool
	MaxBuildable int64
	Components   []ComponentAvailability
}

// MaxBuildable calcula la disponibilidad de ensamble a partir de las líneas BOM
// anotadas con el stock actual de cada componente (servicio de dominio puro).
// Líneas con cantidad requerida cero se omiten: no restringen el cálculo.
func MaxBuildable(components []entity.BOMComponent) Availability {
	if len(components) == 0 {
		return Availability{HasBOM: false}
	}

	result := Availability{HasBOM: true}
	min := int64(-1)
	for _, c := range components {
		if !c.QuantityRequired.IsPositive() {
			continue
		}
		max := c.AvailableQty.Div(c.QuantityRequired).Floor().IntPart()
		if max < 0 {
			max = 0
		}
		result.Components = append(result.Components, ComponentAvailability{
			ComponentItemID:  c.ComponentItemID,
			ComponentSKU:     c.ComponentSKU,
			ComponentName:    c.ComponentName,
			QuantityRequired: c.QuantityRequired,
			AvailableQty:     c.AvailableQty,
			MaxFromComponent: max,
		})
		if min < 0 || max < min {
			min = max
		}
	}
	if min < 0 {
		// Todas las líneas tenían cantidad requerida cero.
		return Availability{HasBOM: false}
	}

	result.MaxBuildable = min
	for i := range result.Components {
		result.Components[i].IsLimiting = result.Components[i].MaxFromComponent == min
	}
	return result
}

// LimitingComponents devuelve los IDs de los componentes que restringen el máximo.
func (a Availability) LimitingComponents() []string {
	var ids []string
	for _, c := range a.Components {
		if c.IsLimiting {
			ids = append(ids, c.ComponentItemID)
		}
	}
	return ids
}
