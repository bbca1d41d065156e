package bom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ensambles-api/internal/domain/bom"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests WouldCycle
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: auto-referencia directa → siempre es ciclo.
func TestWouldCycle_AutoReferencia(t *testing.T) {
	g := bom.Graph{}

	assert.True(t, g.WouldCycle("mesa", "mesa"))
}

// Caso 2: ciclo directo A→B cuando ya existe B→A.
func TestWouldCycle_CicloDirecto(t *testing.T) {
	g := bom.Graph{}
	g.AddEdge("mesa", "pata")

	assert.True(t, g.WouldCycle("pata", "mesa"),
		"pata→mesa cerraría el ciclo con mesa→pata")
}

// Caso 3: ciclo transitivo A→B→C cuando se intenta C→A.
func TestWouldCycle_CicloTransitivo(t *testing.T) {
	g := bom.Graph{}
	g.AddEdge("mueble", "modulo")
	g.AddEdge("modulo", "panel")

	assert.True(t, g.WouldCycle("panel", "mueble"))
}

// Caso 4: aristas válidas no dan falsos positivos.
func TestWouldCycle_SinFalsosPositivos(t *testing.T) {
	g := bom.Graph{}
	g.AddEdge("mesa", "pata")
	g.AddEdge("mesa", "tablero")
	g.AddEdge("escritorio", "pata")

	assert.False(t, g.WouldCycle("mesa", "tornillo"), "componente nuevo no genera ciclo")
	assert.False(t, g.WouldCycle("escritorio", "tablero"),
		"compartir componentes entre ensambles es válido (diamante, no ciclo)")
}

// Caso 5: el diamante A→B, A→C, B→D, C→D es un DAG válido.
func TestWouldCycle_DiamanteEsValido(t *testing.T) {
	g := bom.Graph{}
	g.AddEdge("kit", "caja")
	g.AddEdge("kit", "manual")
	g.AddEdge("caja", "carton")

	assert.False(t, g.WouldCycle("manual", "carton"))
}

// Caso 6: el ciclo se detecta aunque esté a varios niveles de profundidad.
func TestWouldCycle_CicloProfundo(t *testing.T) {
	g := bom.Graph{}
	// Cadena n0→n1→...→n9
	ids := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8", "n9"}
	for i := 0; i < len(ids)-1; i++ {
		g.AddEdge(ids[i], ids[i+1])
	}

	assert.True(t, g.WouldCycle("n9", "n0"))
	assert.False(t, g.WouldCycle("n0", "n9"), "repetir una arista hacia adelante no es ciclo")
}
