package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func componente(itemID string, required, available string) entity.BOMComponent {
	return entity.BOMComponent{
		BOMLine: entity.BOMLine{
			ComponentItemID:  itemID,
			QuantityRequired: decimal.RequireFromString(required),
		},
		ComponentSKU: "SKU-" + itemID,
		AvailableQty: decimal.RequireFromString(available),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests MaxBuildable
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: sin líneas BOM → no es ensamblable (HasBOM=false, no "cero").
func TestMaxBuildable_SinLineasBOM(t *testing.T) {
	avail := inventory.MaxBuildable(nil)

	assert.False(t, avail.HasBOM, "un ítem sin receta no tiene BOM")
	assert.Equal(t, int64(0), avail.MaxBuildable)
	assert.Empty(t, avail.Components)
}

// Caso 2: el componente más escaso limita el máximo ensamblable.
func TestMaxBuildable_ComponenteEscasoLimita(t *testing.T) {
	components := []entity.BOMComponent{
		componente("tornillo", "4", "100"), // alcanza para 25
		componente("panel", "2", "10"),     // alcanza para 5 ← limitante
		componente("marco", "1", "8"),      // alcanza para 8
	}

	avail := inventory.MaxBuildable(components)

	require.True(t, avail.HasBOM)
	assert.Equal(t, int64(5), avail.MaxBuildable,
		"el máximo lo fija el componente con menos stock relativo")

	limiting := avail.LimitingComponents()
	require.Len(t, limiting, 1)
	assert.Equal(t, "panel", limiting[0])
}

// Caso 3: cantidades fraccionarias → el máximo se trunca hacia abajo.
func TestMaxBuildable_CantidadesFraccionarias(t *testing.T) {
	components := []entity.BOMComponent{
		componente("resina", "0.75", "5"), // 5/0.75 = 6.66 → 6
	}

	avail := inventory.MaxBuildable(components)

	assert.Equal(t, int64(6), avail.MaxBuildable)
}

// Caso 4: un componente sin stock → máximo cero, pero HasBOM sigue true.
func TestMaxBuildable_ComponenteSinStock(t *testing.T) {
	components := []entity.BOMComponent{
		componente("tornillo", "4", "100"),
		componente("panel", "2", "0"),
	}

	avail := inventory.MaxBuildable(components)

	assert.True(t, avail.HasBOM, "tener receta no depende del stock")
	assert.Equal(t, int64(0), avail.MaxBuildable)
	assert.Equal(t, []string{"panel"}, avail.LimitingComponents())
}

// Caso 5: stock negativo (ajustes pendientes) se trata como cero.
func TestMaxBuildable_StockNegativoCuentaComoCero(t *testing.T) {
	components := []entity.BOMComponent{
		componente("panel", "2", "-4"),
	}

	avail := inventory.MaxBuildable(components)

	assert.Equal(t, int64(0), avail.MaxBuildable)
	require.Len(t, avail.Components, 1)
	assert.Equal(t, int64(0), avail.Components[0].MaxFromComponent)
}

// Caso 6: varios componentes empatados en el mínimo → todos son limitantes.
func TestMaxBuildable_VariosLimitantes(t *testing.T) {
	components := []entity.BOMComponent{
		componente("panel", "2", "10"),  // 5
		componente("marco", "1", "5"),   // 5
		componente("tornillo", "1", "50"), // 50
	}

	avail := inventory.MaxBuildable(components)

	assert.Equal(t, int64(5), avail.MaxBuildable)
	assert.ElementsMatch(t, []string{"panel", "marco"}, avail.LimitingComponents())
}

// Caso 7: líneas con cantidad requerida cero se omiten del cálculo.
func TestMaxBuildable_LineaConCantidadCeroSeOmite(t *testing.T) {
	components := []entity.BOMComponent{
		componente("etiqueta", "0", "100"),
		componente("panel", "2", "10"),
	}

	avail := inventory.MaxBuildable(components)

	assert.Equal(t, int64(5), avail.MaxBuildable)
	require.Len(t, avail.Components, 1, "la línea de cantidad cero no aparece en el detalle")
	assert.Equal(t, "panel", avail.Components[0].ComponentItemID)
}

// Caso 7b: si TODAS las líneas tienen cantidad cero, el ítem no es ensamblable.
func TestMaxBuildable_SoloLineasDeCantidadCero(t *testing.T) {
	components := []entity.BOMComponent{
		componente("etiqueta", "0", "100"),
	}

	avail := inventory.MaxBuildable(components)

	assert.False(t, avail.HasBOM)
}
