package assembly_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ensambles-api/internal/application/assembly"
	"github.com/jhoicas/ensambles-api/internal/application/audit"
	appinv "github.com/jhoicas/ensambles-api/internal/application/inventory"
	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "00000000-0000-0000-0000-0000000000aa"
	testUserID    = "00000000-0000-0000-0000-0000000000bb"
)

type sinkNulo struct{}

func (sinkNulo) Emit(ctx context.Context, event audit.Event) error { return nil }

// fixture monta el motor de ensambles y el libro sobre el mismo store en memoria.
type fixture struct {
	store    *memory.Store
	uc       *assembly.AssemblyUseCase
	ledgerUC *appinv.LedgerUseCase
	bodega   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store)
	itemRepo := memory.NewItemRepository(store)
	locRepo := memory.NewLocationRepository(store)

	f := &fixture{
		store: store,
		uc: assembly.NewAssemblyUseCase(
			txRunner, itemRepo, locRepo, memory.NewBOMRepository(store), sinkNulo{},
		),
		ledgerUC: appinv.NewLedgerUseCase(
			txRunner, itemRepo, locRepo,
			memory.NewStockMovementRepository(store),
			memory.NewItemLotRepository(store),
			sinkNulo{},
		),
	}

	loc := &entity.Location{ID: uuid.New().String(), CompanyID: testCompanyID, Name: "Bodega Central", CreatedAt: time.Now()}
	require.NoError(t, locRepo.Create(loc))
	f.bodega = loc.ID
	return f
}

func (f *fixture) seedItem(t *testing.T, sku string) string {
	t.Helper()
	item := &entity.Item{
		ID:        uuid.New().String(),
		CompanyID: testCompanyID,
		SKU:       sku,
		Name:      "Ítem " + sku,
		Quantity:  decimal.Zero,
		CreatedAt: time.Now(),
	}
	require.NoError(t, memory.NewItemRepository(f.store).Create(item))
	return item.ID
}

func (f *fixture) seedBOMLine(t *testing.T, parentID, componentID, required string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, memory.NewBOMRepository(f.store).CreateLine(&entity.BOMLine{
		ID:               uuid.New().String(),
		CompanyID:        testCompanyID,
		ParentItemID:     parentID,
		ComponentItemID:  componentID,
		QuantityRequired: decimal.RequireFromString(required),
		CreatedAt:        now,
		UpdatedAt:        now,
	}))
}

func (f *fixture) recibir(t *testing.T, itemID, qty string) {
	t.Helper()
	_, err := f.ledgerUC.RegisterMovement(context.Background(), appinv.MovementInput{
		CompanyID:  testCompanyID,
		UserID:     testUserID,
		ItemID:     itemID,
		Type:       entity.MovementTypeReceive,
		Quantity:   decimal.RequireFromString(qty),
		LocationID: f.bodega,
	})
	require.NoError(t, err)
}

func (f *fixture) totalItem(t *testing.T, itemID string) decimal.Decimal {
	t.Helper()
	item, err := memory.NewItemRepository(f.store).GetByID(itemID)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.Quantity
}

// mesaConPatas arma el escenario clásico: mesa = 4 tornillos + 1 tablero.
func mesaConPatas(t *testing.T, f *fixture) (mesa, tornillo, tablero string) {
	t.Helper()
	mesa = f.seedItem(t, "MESA-01")
	tornillo = f.seedItem(t, "TORN-01")
	tablero = f.seedItem(t, "TABL-01")
	f.seedBOMLine(t, mesa, tornillo, "4")
	f.seedBOMLine(t, mesa, tablero, "1")
	return
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests GetAvailability
// ──────────────────────────────────────────────────────────────────────────────

func TestGetAvailability_ConStockDeComponentes(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo, tablero := mesaConPatas(t, f)
	f.recibir(t, tornillo, "100") // alcanza para 25
	f.recibir(t, tablero, "6")    // alcanza para 6 ← limitante

	avail, err := f.uc.GetAvailability(context.Background(), testCompanyID, mesa)

	require.NoError(t, err)
	assert.True(t, avail.HasBOM)
	assert.Equal(t, int64(6), avail.MaxBuildable)
	assert.Equal(t, []string{tablero}, avail.LimitingComponents())
}

func TestGetAvailability_ItemSinBOM(t *testing.T) {
	f := newFixture(t)
	suelto := f.seedItem(t, "SUELTO-01")

	avail, err := f.uc.GetAvailability(context.Background(), testCompanyID, suelto)

	require.NoError(t, err)
	assert.False(t, avail.HasBOM, "un ítem sin receta reporta HasBOM=false, no cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Build
// ──────────────────────────────────────────────────────────────────────────────

func TestBuild_ConsumeComponentesYProduceEnsamble(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo, tablero := mesaConPatas(t, f)
	f.recibir(t, tornillo, "100")
	f.recibir(t, tablero, "10")

	result, err := f.uc.Build(context.Background(), assembly.BuildInput{
		CompanyID:  testCompanyID,
		UserID:     testUserID,
		ItemID:     mesa,
		LocationID: f.bodega,
		Quantity:   decimal.RequireFromString("3"),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.TransactionID)
	assert.True(t, result.NewParentQuantity.Equal(decimal.RequireFromString("3")))
	require.Len(t, result.Components, 2)

	assert.True(t, f.totalItem(t, mesa).Equal(decimal.RequireFromString("3")))
	assert.True(t, f.totalItem(t, tornillo).Equal(decimal.RequireFromString("88")), "100 - 3*4")
	assert.True(t, f.totalItem(t, tablero).Equal(decimal.RequireFromString("7")), "10 - 3*1")

	// Todas las filas del build comparten el TransactionID del resultado.
	movs, err := memory.NewStockMovementRepository(f.store).ListByItemAsc(mesa)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, result.TransactionID, movs[0].TransactionID)
	assert.Contains(t, movs[0].ReferenceNumber, "BUILD-")
}

// Componentes insuficientes → error con detalle de faltantes y CERO consumo parcial.
func TestBuild_ComponentesInsuficientes(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo, tablero := mesaConPatas(t, f)
	f.recibir(t, tornillo, "100")
	f.recibir(t, tablero, "2") // solo alcanza para 2 mesas

	_, err := f.uc.Build(context.Background(), assembly.BuildInput{
		CompanyID:  testCompanyID,
		UserID:     testUserID,
		ItemID:     mesa,
		LocationID: f.bodega,
		Quantity:   decimal.RequireFromString("5"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientComponents)

	var insufErr *assembly.InsufficientComponentsError
	require.ErrorAs(t, err, &insufErr)
	require.Len(t, insufErr.Shortages, 1)
	assert.Equal(t, tablero, insufErr.Shortages[0].ComponentItemID)
	assert.Equal(t, int64(2), insufErr.Shortages[0].MaxFromComponent)

	// Nada se consumió: el rechazo es todo-o-nada.
	assert.True(t, f.totalItem(t, tornillo).Equal(decimal.RequireFromString("100")))
	assert.True(t, f.totalItem(t, tablero).Equal(decimal.RequireFromString("2")))
	assert.True(t, f.totalItem(t, mesa).IsZero())
}

func TestBuild_SinBOM(t *testing.T) {
	f := newFixture(t)
	suelto := f.seedItem(t, "SUELTO-02")

	_, err := f.uc.Build(context.Background(), assembly.BuildInput{
		CompanyID:  testCompanyID,
		UserID:     testUserID,
		ItemID:     suelto,
		LocationID: f.bodega,
		Quantity:   decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	mesa, _, _ := mesaConPatas(t, f)

	for _, qty := range []string{"0", "-1", "1.5"} {
		_, err := f.uc.Build(context.Background(), assembly.BuildInput{
			CompanyID:  testCompanyID,
			UserID:     testUserID,
			ItemID:     mesa,
			LocationID: f.bodega,
			Quantity:   decimal.RequireFromString(qty),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %s debe rechazarse", qty)
	}
}

// Dos builds concurrentes compiten por stock que solo alcanza para uno:
// exactamente uno gana y el otro recibe componentes insuficientes.
func TestBuild_ConcurrenciaTodoONada(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo, tablero := mesaConPatas(t, f)
	f.recibir(t, tornillo, "4") // alcanza para UNA mesa
	f.recibir(t, tablero, "1")

	input := assembly.BuildInput{
		CompanyID:  testCompanyID,
		UserID:     testUserID,
		ItemID:     mesa,
		LocationID: f.bodega,
		Quantity:   decimal.NewFromInt(1),
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Build(context.Background(), input)
		}(i)
	}
	wg.Wait()

	exitos := 0
	for _, err := range errs {
		if err == nil {
			exitos++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientComponents)
		}
	}
	assert.Equal(t, 1, exitos, "con stock para una sola mesa, exactamente un build gana")
	assert.True(t, f.totalItem(t, mesa).Equal(decimal.NewFromInt(1)))
	assert.True(t, f.totalItem(t, tornillo).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Unbuild
// ──────────────────────────────────────────────────────────────────────────────

func TestUnbuild_DevuelveComponentes(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo, tablero := mesaConPatas(t, f)
	f.recibir(t, tornillo, "40")
	f.recibir(t, tablero, "10")

	_, err := f.uc.Build(context.Background(), assembly.BuildInput{
		CompanyID:  testCompanyID,
		UserID:     testUserID,
		ItemID:     mesa,
		LocationID: f.bodega,
		Quantity:   decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	result, err := f.uc.Unbuild(context.Background(), assembly.BuildInput{
		CompanyID:  testCompanyID,
		UserID:     testUserID,
		ItemID:     mesa,
		LocationID: f.bodega,
		Quantity:   decimal.NewFromInt(2),
	})

	require.NoError(t, err)
	assert.True(t, result.NewParentQuantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, f.totalItem(t, tornillo).Equal(decimal.RequireFromString("28")), "20 restantes + 2*4 devueltos")
	assert.True(t, f.totalItem(t, tablero).Equal(decimal.RequireFromString("7")))
}

func TestUnbuild_SinStockDelEnsamble(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo, tablero := mesaConPatas(t, f)
	f.recibir(t, tornillo, "4")
	f.recibir(t, tablero, "1")

	_, err := f.uc.Unbuild(context.Background(), assembly.BuildInput{
		CompanyID:  testCompanyID,
		UserID:     testUserID,
		ItemID:     mesa,
		LocationID: f.bodega,
		Quantity:   decimal.NewFromInt(1),
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientParent)
	assert.True(t, f.totalItem(t, tornillo).Equal(decimal.NewFromInt(4)),
		"un unbuild rechazado no devuelve componentes")
}
