package bom_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbom "github.com/jhoicas/ensambles-api/internal/application/bom"
	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "00000000-0000-0000-0000-0000000000aa"
	otraEmpresaID = "00000000-0000-0000-0000-0000000000cc"
)

type fixture struct {
	store *memory.Store
	uc    *appbom.BOMUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	uc := appbom.NewBOMUseCase(memory.NewBOMRepository(store), memory.NewItemRepository(store))
	return &fixture{store: store, uc: uc}
}

func (f *fixture) seedItem(t *testing.T, companyID, sku string) string {
	t.Helper()
	item := &entity.Item{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		SKU:       sku,
		Name:      "Ítem " + sku,
		Quantity:  decimal.Zero,
		CreatedAt: time.Now(),
	}
	require.NoError(t, memory.NewItemRepository(f.store).Create(item))
	return item.ID
}

func (f *fixture) addLine(t *testing.T, parentID, componentID, required string) *entity.BOMLine {
	t.Helper()
	line, err := f.uc.AddComponent(context.Background(), appbom.AddComponentInput{
		CompanyID:        testCompanyID,
		ParentItemID:     parentID,
		ComponentItemID:  componentID,
		QuantityRequired: decimal.RequireFromString(required),
	})
	require.NoError(t, err)
	return line
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AddComponent
// ──────────────────────────────────────────────────────────────────────────────

func TestAddComponent_CreaLinea(t *testing.T) {
	f := newFixture(t)
	mesa := f.seedItem(t, testCompanyID, "MESA-01")
	pata := f.seedItem(t, testCompanyID, "PATA-01")

	line := f.addLine(t, mesa, pata, "4")

	assert.NotEmpty(t, line.ID)
	assert.Equal(t, mesa, line.ParentItemID)
	assert.Equal(t, pata, line.ComponentItemID)
	assert.True(t, line.QuantityRequired.Equal(decimal.RequireFromString("4")))
}

func TestAddComponent_AutoReferenciaRechazada(t *testing.T) {
	f := newFixture(t)
	mesa := f.seedItem(t, testCompanyID, "MESA-02")

	_, err := f.uc.AddComponent(context.Background(), appbom.AddComponentInput{
		CompanyID:        testCompanyID,
		ParentItemID:     mesa,
		ComponentItemID:  mesa,
		QuantityRequired: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidComponent)
}

// Un ciclo transitivo mueble→módulo→panel + panel→mueble se rechaza sin dejar cambios.
func TestAddComponent_CicloRechazado(t *testing.T) {
	f := newFixture(t)
	mueble := f.seedItem(t, testCompanyID, "MUEBLE-01")
	modulo := f.seedItem(t, testCompanyID, "MODULO-01")
	panel := f.seedItem(t, testCompanyID, "PANEL-01")
	f.addLine(t, mueble, modulo, "2")
	f.addLine(t, modulo, panel, "3")

	_, err := f.uc.AddComponent(context.Background(), appbom.AddComponentInput{
		CompanyID:        testCompanyID,
		ParentItemID:     panel,
		ComponentItemID:  mueble,
		QuantityRequired: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrCyclicBOM)

	components, err := f.uc.GetComponents(context.Background(), testCompanyID, panel)
	require.NoError(t, err)
	assert.Empty(t, components, "el rechazo por ciclo no debe persistir la línea")
}

func TestAddComponent_LineaDuplicada(t *testing.T) {
	f := newFixture(t)
	mesa := f.seedItem(t, testCompanyID, "MESA-03")
	pata := f.seedItem(t, testCompanyID, "PATA-03")
	f.addLine(t, mesa, pata, "4")

	_, err := f.uc.AddComponent(context.Background(), appbom.AddComponentInput{
		CompanyID:        testCompanyID,
		ParentItemID:     mesa,
		ComponentItemID:  pata,
		QuantityRequired: decimal.NewFromInt(6),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAddComponent_CantidadNoPositiva(t *testing.T) {
	f := newFixture(t)
	mesa := f.seedItem(t, testCompanyID, "MESA-04")
	pata := f.seedItem(t, testCompanyID, "PATA-04")

	_, err := f.uc.AddComponent(context.Background(), appbom.AddComponentInput{
		CompanyID:        testCompanyID,
		ParentItemID:     mesa,
		ComponentItemID:  pata,
		QuantityRequired: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAddComponent_ItemDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	mesa := f.seedItem(t, testCompanyID, "MESA-05")
	ajeno := f.seedItem(t, otraEmpresaID, "AJENO-01")

	_, err := f.uc.AddComponent(context.Background(), appbom.AddComponentInput{
		CompanyID:        testCompanyID,
		ParentItemID:     mesa,
		ComponentItemID:  ajeno,
		QuantityRequired: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests UpdateComponent / RemoveComponent
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateComponent_CambiaCantidad(t *testing.T) {
	f := newFixture(t)
	mesa := f.seedItem(t, testCompanyID, "MESA-06")
	pata := f.seedItem(t, testCompanyID, "PATA-06")
	line := f.addLine(t, mesa, pata, "4")

	updated, err := f.uc.UpdateComponent(context.Background(), testCompanyID, line.ID,
		decimal.RequireFromString("6"), "unidad", 2)

	require.NoError(t, err)
	assert.True(t, updated.QuantityRequired.Equal(decimal.RequireFromString("6")))
	assert.Equal(t, "unidad", updated.UnitMeasure)
	assert.Equal(t, 2, updated.DisplayOrder)
}

func TestRemoveComponent_EliminaLinea(t *testing.T) {
	f := newFixture(t)
	mesa := f.seedItem(t, testCompanyID, "MESA-07")
	pata := f.seedItem(t, testCompanyID, "PATA-07")
	line := f.addLine(t, mesa, pata, "4")

	require.NoError(t, f.uc.RemoveComponent(context.Background(), testCompanyID, line.ID))

	components, err := f.uc.GetComponents(context.Background(), testCompanyID, mesa)
	require.NoError(t, err)
	assert.Empty(t, components)

	// Tras quitar la línea bloqueante, la arista inversa ya es válida.
	_, err = f.uc.AddComponent(context.Background(), appbom.AddComponentInput{
		CompanyID:        testCompanyID,
		ParentItemID:     pata,
		ComponentItemID:  mesa,
		QuantityRequired: decimal.NewFromInt(1),
	})
	assert.NoError(t, err)
}

func TestRemoveComponent_LineaInexistente(t *testing.T) {
	f := newFixture(t)

	err := f.uc.RemoveComponent(context.Background(), testCompanyID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests GetWhereUsed
// ──────────────────────────────────────────────────────────────────────────────

func TestGetWhereUsed_ListaPadres(t *testing.T) {
	f := newFixture(t)
	mesa := f.seedItem(t, testCompanyID, "MESA-08")
	escritorio := f.seedItem(t, testCompanyID, "ESCR-08")
	pata := f.seedItem(t, testCompanyID, "PATA-08")
	f.addLine(t, mesa, pata, "4")
	f.addLine(t, escritorio, pata, "5")

	entries, err := f.uc.GetWhereUsed(context.Background(), testCompanyID, pata)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	padres := []string{entries[0].ParentItemID, entries[1].ParentItemID}
	assert.ElementsMatch(t, []string{mesa, escritorio}, padres)
}

func TestGetWhereUsed_ComponenteSinPadres(t *testing.T) {
	f := newFixture(t)
	suelto := f.seedItem(t, testCompanyID, "SUELTO-08")

	entries, err := f.uc.GetWhereUsed(context.Background(), testCompanyID, suelto)

	require.NoError(t, err)
	assert.Empty(t, entries)
}
