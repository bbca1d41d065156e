package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var baseDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func lote(id string, qty string, expiresInDays int, createdOffsetMin int) *entity.ItemLot {
	l := &entity.ItemLot{
		ID:        id,
		LotNumber: "LOT-" + id,
		Quantity:  decimal.RequireFromString(qty),
		CreatedAt: baseDate.Add(time.Duration(createdOffsetMin) * time.Minute),
	}
	if expiresInDays >= 0 {
		exp := baseDate.AddDate(0, 0, expiresInDays)
		l.ExpirationDate = &exp
	}
	return l
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests SortByExpiration
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: los lotes de vencimiento más próximo van primero; sin fecha, al final.
func TestSortByExpiration_OrdenFIFO(t *testing.T) {
	lots := []*entity.ItemLot{
		lote("sin-fecha", "10", -1, 0),
		lote("lejano", "10", 90, 1),
		lote("proximo", "10", 5, 2),
	}

	inventory.SortByExpiration(lots)

	assert.Equal(t, "proximo", lots[0].ID)
	assert.Equal(t, "lejano", lots[1].ID)
	assert.Equal(t, "sin-fecha", lots[2].ID, "lotes sin vencimiento se consumen al final")
}

// Caso 2: empates de vencimiento se resuelven por fecha de creación (orden estable).
func TestSortByExpiration_EmpateResueltoPorCreacion(t *testing.T) {
	lots := []*entity.ItemLot{
		lote("segundo", "10", 30, 10),
		lote("primero", "10", 30, 0),
	}

	inventory.SortByExpiration(lots)

	assert.Equal(t, "primero", lots[0].ID)
	assert.Equal(t, "segundo", lots[1].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AllocateFromLots
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: un solo lote alcanza → una sola asignación y sin faltante.
func TestAllocateFromLots_UnSoloLoteAlcanza(t *testing.T) {
	lots := []*entity.ItemLot{lote("a", "10", 30, 0)}

	allocs, remaining := inventory.AllocateFromLots(lots, decimal.RequireFromString("4"))

	require.Len(t, allocs, 1)
	assert.Equal(t, "a", allocs[0].LotID)
	assert.True(t, allocs[0].Quantity.Equal(decimal.RequireFromString("4")))
	assert.True(t, remaining.IsZero(), "no debe quedar faltante")
}

// Caso 2: la cantidad cruza varios lotes → se consumen en orden de vencimiento.
func TestAllocateFromLots_ConsumoCruzaLotes(t *testing.T) {
	lots := []*entity.ItemLot{
		lote("lejano", "20", 90, 0),
		lote("proximo", "6", 5, 1),
	}

	allocs, remaining := inventory.AllocateFromLots(lots, decimal.RequireFromString("10"))

	require.Len(t, allocs, 2)
	assert.Equal(t, "proximo", allocs[0].LotID, "primero se agota el lote de vencimiento más próximo")
	assert.True(t, allocs[0].Quantity.Equal(decimal.RequireFromString("6")))
	assert.Equal(t, "lejano", allocs[1].LotID)
	assert.True(t, allocs[1].Quantity.Equal(decimal.RequireFromString("4")))
	assert.True(t, remaining.IsZero())
}

// Caso 3: los lotes no alcanzan → se devuelve el faltante positivo.
func TestAllocateFromLots_StockInsuficiente(t *testing.T) {
	lots := []*entity.ItemLot{
		lote("a", "3", 10, 0),
		lote("b", "2", 20, 1),
	}

	allocs, remaining := inventory.AllocateFromLots(lots, decimal.RequireFromString("8"))

	require.Len(t, allocs, 2)
	assert.True(t, remaining.Equal(decimal.RequireFromString("3")),
		"faltante = solicitado - suma de lotes")
}

// Caso 4: lotes vacíos o en cero se saltan sin generar asignaciones.
func TestAllocateFromLots_LotesEnCeroSeSaltan(t *testing.T) {
	lots := []*entity.ItemLot{
		lote("vacio", "0", 5, 0),
		lote("lleno", "10", 30, 1),
	}

	allocs, remaining := inventory.AllocateFromLots(lots, decimal.RequireFromString("5"))

	require.Len(t, allocs, 1)
	assert.Equal(t, "lleno", allocs[0].LotID)
	assert.True(t, remaining.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ItemLot.State
// ──────────────────────────────────────────────────────────────────────────────

func TestItemLotState_Clasificacion(t *testing.T) {
	today := baseDate

	assert.Equal(t, entity.LotStateActive, lote("sin-fecha", "1", -1, 0).State(today))
	assert.Equal(t, entity.LotStateExpired, lote("vencido", "1", 0, 0).State(today.AddDate(0, 0, 1)))
	assert.Equal(t, entity.LotStateExpiring, lote("por-vencer", "1", 15, 0).State(today))
	assert.Equal(t, entity.LotStateActive, lote("vigente", "1", 120, 0).State(today))
}

// El vencimiento se evalúa por día calendario: un lote que vence hoy no está
// vencido aunque ya haya pasado la hora de corte; al día siguiente sí lo está.
func TestItemLotState_VenceHoy(t *testing.T) {
	venceHoy := lote("vence-hoy", "1", 0, 0)
	mediodia := baseDate.Add(15 * time.Hour)

	assert.Equal(t, entity.LotStateExpiring, venceHoy.State(mediodia))
	assert.False(t, venceHoy.Expired(mediodia))
	assert.True(t, venceHoy.Expired(baseDate.AddDate(0, 0, 1)))
}
