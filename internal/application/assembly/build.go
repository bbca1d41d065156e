package assembly

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/application/audit"
	"github.com/jhoicas/ensambles-api/internal/application/ledger"
	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
	"github.com/jhoicas/ensambles-api/pkg/metrics"
)

// BuildInput entrada para Build/Unbuild: el ensamble, la ubicación donde se
// consume/produce el stock y la cantidad entera de unidades.
type BuildInput struct {
	CompanyID  string
	UserID     string
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	Notes      string
}

// ComponentConsumption detalla lo consumido (o devuelto) de un componente.
type ComponentConsumption struct {
	ComponentItemID string
	SKU             string
	Name            string
	Quantity        decimal.Decimal
	NewQuantity     decimal.Decimal
}

// BuildResult resultado de un Build o Unbuild exitoso.
type BuildResult struct {
	TransactionID     string
	Quantity          decimal.Decimal
	NewParentQuantity decimal.Decimal
	Components        []ComponentConsumption
	Message           string
}

// Build convierte stock de componentes en stock del ensamble en una sola
// transacción: bloquea las filas involucradas, revalida la factibilidad sobre
// los valores bloqueados (nunca confía en una disponibilidad precalculada),
// consume cada componente y produce el ensamble. Si algún componente no
// alcanza, toda la operación se revierte sin consumo parcial observable.
func (uc *AssemblyUseCase) Build(ctx context.Context, input BuildInput) (*BuildResult, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	now := time.Now()
	var result *BuildResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		lqRepo repository.LocationQuantityRepository,
		lotRepo repository.ItemLotRepository,
		itemRepo repository.ItemRepository,
		bomRepo repository.BOMRepository,
	) error {
		repos := ledger.Repos{Movements: movRepo, Quantities: lqRepo, Lots: lotRepo, Items: itemRepo}
		var err error
		result, err = uc.BuildInTx(repos, bomRepo, input, txID, now)
		return err
	})
	if err != nil {
		metrics.BuildFailuresTotal.Inc()
		return nil, err
	}

	metrics.BuildsTotal.Inc()
	uc.emitAudit(ctx, input, txID, "build")
	return result, nil
}

// BuildInTx ejecuta un Build usando repositorios atados a la transacción del
// caller (el subsistema de órdenes de trabajo lo invoca dentro de su propia tx
// al registrar cantidad completada).
func (uc *AssemblyUseCase) BuildInTx(
	repos ledger.Repos,
	bomRepo repository.BOMRepository,
	input BuildInput,
	txID string,
	now time.Time,
) (*BuildResult, error) {
	components, err := bomRepo.ListComponents(input.ItemID)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("el ítem no tiene lista de materiales: %w", domain.ErrInvalidInput)
	}

	items, err := lockItems(repos.Items, input.ItemID, components)
	if err != nil {
		return nil, err
	}
	parent := items[input.ItemID]

	// Bloquea las filas de stock por componente en orden estable de ID para
	// evitar interbloqueos entre builds concurrentes, y revalida factibilidad
	// sobre los valores ya bloqueados.
	quantity := input.Quantity
	shortages, err := uc.lockAndCheck(repos, components, items, input.LocationID, quantity.IntPart())
	if err != nil {
		return nil, err
	}
	if len(shortages) > 0 {
		return nil, &InsufficientComponentsError{Shortages: shortages}
	}

	spec := ledger.MovementSpec{
		CompanyID:     input.CompanyID,
		TransactionID: txID,
		Type:          entity.MovementTypeAdjust,
		Reference:     "BUILD-" + shortID(txID),
		Notes:         input.Notes,
		CreatedBy:     input.UserID,
		Now:           now,
	}

	result := &BuildResult{TransactionID: txID, Quantity: quantity}
	for _, c := range components {
		if !c.QuantityRequired.IsPositive() {
			continue
		}
		component := items[c.ComponentItemID]
		need := c.QuantityRequired.Mul(quantity)
		if err := ledger.Consume(repos, component, input.LocationID, "", need, spec); err != nil {
			return nil, err
		}
		result.Components = append(result.Components, ComponentConsumption{
			ComponentItemID: component.ID,
			SKU:             component.SKU,
			Name:            component.Name,
			Quantity:        need,
			NewQuantity:     component.Quantity,
		})
	}

	if err := ledger.Produce(repos, parent, input.LocationID, "", quantity, spec); err != nil {
		return nil, err
	}
	result.NewParentQuantity = parent.Quantity
	result.Message = fmt.Sprintf("Se construyeron %s unidades de %s (%s); %d componente(s) consumido(s)",
		quantity.String(), parent.Name, parent.SKU, len(result.Components))
	return result, nil
}

// Unbuild es el inverso exacto de Build: consume stock del ensamble y devuelve
// el stock de cada componente según su cantidad requerida, con la misma
// atomicidad todo-o-nada. Falla con ErrInsufficientParent si el ensamble no
// tiene stock suficiente en la ubicación.
func (uc *AssemblyUseCase) Unbuild(ctx context.Context, input BuildInput) (*BuildResult, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	now := time.Now()
	var result *BuildResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		lqRepo repository.LocationQuantityRepository,
		lotRepo repository.ItemLotRepository,
		itemRepo repository.ItemRepository,
		bomRepo repository.BOMRepository,
	) error {
		repos := ledger.Repos{Movements: movRepo, Quantities: lqRepo, Lots: lotRepo, Items: itemRepo}

		components, err := bomRepo.ListComponents(input.ItemID)
		if err != nil {
			return err
		}
		if len(components) == 0 {
			return fmt.Errorf("el ítem no tiene lista de materiales: %w", domain.ErrInvalidInput)
		}

		items, err := lockItems(itemRepo, input.ItemID, components)
		if err != nil {
			return err
		}
		parent := items[input.ItemID]

		parentLQ, err := lqRepo.GetForUpdate(input.ItemID, input.LocationID)
		if err != nil {
			return err
		}
		if parentLQ.Quantity.LessThan(input.Quantity) {
			return domain.ErrInsufficientParent
		}

		spec := ledger.MovementSpec{
			CompanyID:     input.CompanyID,
			TransactionID: txID,
			Type:          entity.MovementTypeAdjust,
			Reference:     "UNBUILD-" + shortID(txID),
			Notes:         input.Notes,
			CreatedBy:     input.UserID,
			Now:           now,
		}

		if err := ledger.Consume(repos, parent, input.LocationID, "", input.Quantity, spec); err != nil {
			return err
		}
		result = &BuildResult{TransactionID: txID, Quantity: input.Quantity}
		for _, c := range components {
			if !c.QuantityRequired.IsPositive() {
				continue
			}
			component := items[c.ComponentItemID]
			returned := c.QuantityRequired.Mul(input.Quantity)
			if err := ledger.Produce(repos, component, input.LocationID, "", returned, spec); err != nil {
				return err
			}
			result.Components = append(result.Components, ComponentConsumption{
				ComponentItemID: component.ID,
				SKU:             component.SKU,
				Name:            component.Name,
				Quantity:        returned,
				NewQuantity:     component.Quantity,
			})
		}
		result.NewParentQuantity = parent.Quantity
		result.Message = fmt.Sprintf("Se desensamblaron %s unidades de %s (%s); %d componente(s) devuelto(s)",
			input.Quantity.String(), parent.Name, parent.SKU, len(result.Components))
		return nil
	})
	if err != nil {
		metrics.UnbuildFailuresTotal.Inc()
		return nil, err
	}

	metrics.UnbuildsTotal.Inc()
	uc.emitAudit(ctx, input, txID, "unbuild")
	return result, nil
}

func (uc *AssemblyUseCase) validate(ctx context.Context, input BuildInput) error {
	if input.ItemID == "" || input.LocationID == "" {
		return domain.ErrInvalidInput
	}
	if !input.Quantity.IsPositive() || !input.Quantity.IsInteger() {
		return domain.ErrInvalidQuantity
	}
	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if item.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}
	loc, err := uc.locRepo.GetByID(input.LocationID)
	if err != nil {
		return err
	}
	if loc == nil || loc.CompanyID != input.CompanyID {
		return domain.ErrNotFound
	}
	return nil
}

// lockAndCheck bloquea la fila de stock de cada componente en la ubicación y
// calcula cuántas unidades permite cada uno; devuelve los faltantes si la
// cantidad pedida supera el mínimo.
func (uc *AssemblyUseCase) lockAndCheck(
	repos ledger.Repos,
	components []entity.BOMComponent,
	items map[string]*entity.Item,
	locationID string,
	n int64,
) ([]ComponentShortage, error) {
	ordered := make([]entity.BOMComponent, 0, len(components))
	for _, c := range components {
		if c.QuantityRequired.IsPositive() {
			ordered = append(ordered, c)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ComponentItemID < ordered[j].ComponentItemID })

	var shortages []ComponentShortage
	for _, c := range ordered {
		lq, err := repos.Quantities.GetForUpdate(c.ComponentItemID, locationID)
		if err != nil {
			return nil, err
		}
		max := lq.Quantity.Div(c.QuantityRequired).Floor().IntPart()
		if max < n {
			item := items[c.ComponentItemID]
			shortages = append(shortages, ComponentShortage{
				ComponentItemID:  c.ComponentItemID,
				SKU:              item.SKU,
				Name:             item.Name,
				QuantityRequired: c.QuantityRequired,
				Available:        lq.Quantity,
				MaxFromComponent: max,
			})
		}
	}
	return shortages, nil
}

// lockItems bloquea las filas del ensamble y de todos sus componentes en orden
// estable de ID (evita interbloqueos cuando dos builds comparten componentes).
func lockItems(itemRepo repository.ItemRepository, parentID string, components []entity.BOMComponent) (map[string]*entity.Item, error) {
	ids := make([]string, 0, len(components)+1)
	ids = append(ids, parentID)
	for _, c := range components {
		ids = append(ids, c.ComponentItemID)
	}
	sort.Strings(ids)

	items := make(map[string]*entity.Item, len(ids))
	for _, id := range ids {
		if _, ok := items[id]; ok {
			continue
		}
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		items[id] = item
	}
	return items, nil
}

func (uc *AssemblyUseCase) emitAudit(ctx context.Context, input BuildInput, txID, action string) {
	event := audit.Event{
		CompanyID:  input.CompanyID,
		UserID:     input.UserID,
		Action:     action,
		EntityType: "assembly",
		EntityID:   input.ItemID,
		ExtraData: map[string]any{
			"transaction_id": txID,
			"location_id":    input.LocationID,
			"quantity":       input.Quantity.String(),
		},
	}
	if err := uc.auditSink.Emit(ctx, event); err != nil {
		log.Warn().Err(err).Str("tx_id", txID).Msg("no se pudo emitir evento de auditoría")
	}
}

func shortID(txID string) string {
	if len(txID) >= 8 {
		return txID[:8]
	}
	return txID
}
