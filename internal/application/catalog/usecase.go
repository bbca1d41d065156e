// Package catalog administra el catálogo maestro: ítems (SKUs) y ubicaciones.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

// CatalogUseCase expone CRUD básico de ítems y ubicaciones más el reporte de
// bajo stock. El campo quantity de los ítems nunca se edita por aquí: solo lo
// mutan las operaciones del libro.
type CatalogUseCase struct {
	itemRepo repository.ItemRepository
	locRepo  repository.LocationRepository
	lqRepo   repository.LocationQuantityRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	itemRepo repository.ItemRepository,
	locRepo repository.LocationRepository,
	lqRepo repository.LocationQuantityRepository,
) *CatalogUseCase {
	return &CatalogUseCase{itemRepo: itemRepo, locRepo: locRepo, lqRepo: lqRepo}
}

// CreateItemInput entrada para crear un ítem.
type CreateItemInput struct {
	CompanyID    string
	SKU          string
	Name         string
	Description  string
	ReorderPoint decimal.Decimal
	UnitPrice    decimal.Decimal
	UnitMeasure  string
	LotTracked   bool
}

// CreateItem registra un ítem nuevo con stock cero. El SKU es único por empresa.
func (uc *CatalogUseCase) CreateItem(ctx context.Context, input CreateItemInput) (*entity.Item, error) {
	if input.SKU == "" || input.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.itemRepo.GetByCompanyAndSKU(input.CompanyID, input.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		CompanyID:    input.CompanyID,
		SKU:          input.SKU,
		Name:         input.Name,
		Description:  input.Description,
		Quantity:     decimal.Zero,
		ReorderPoint: input.ReorderPoint,
		UnitPrice:    input.UnitPrice,
		UnitMeasure:  input.UnitMeasure,
		LotTracked:   input.LotTracked,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem devuelve un ítem de la empresa.
func (uc *CatalogUseCase) GetItem(ctx context.Context, companyID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// ListItems lista los ítems de la empresa.
func (uc *CatalogUseCase) ListItems(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.itemRepo.ListByCompany(companyID, limit, offset)
}

// UpdateItemInput campos editables de un ítem (quantity se excluye a propósito).
type UpdateItemInput struct {
	Name         string
	Description  string
	ReorderPoint decimal.Decimal
	UnitPrice    decimal.Decimal
	UnitMeasure  string
	Discontinued bool
}

// UpdateItem actualiza los campos maestros de un ítem.
func (uc *CatalogUseCase) UpdateItem(ctx context.Context, companyID, itemID string, input UpdateItemInput) (*entity.Item, error) {
	item, err := uc.GetItem(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		item.Name = input.Name
	}
	item.Description = input.Description
	item.ReorderPoint = input.ReorderPoint
	item.UnitPrice = input.UnitPrice
	if input.UnitMeasure != "" {
		item.UnitMeasure = input.UnitMeasure
	}
	item.Discontinued = input.Discontinued
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// ItemStock es el detalle de stock de un ítem por ubicación.
type ItemStock struct {
	Item      *entity.Item
	Locations []*entity.LocationQuantity
}

// GetItemStock devuelve el ítem con su desglose por ubicación.
func (uc *CatalogUseCase) GetItemStock(ctx context.Context, companyID, itemID string) (*ItemStock, error) {
	item, err := uc.GetItem(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	locations, err := uc.lqRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	return &ItemStock{Item: item, Locations: locations}, nil
}

// ListLowStock lista los ítems de la empresa en o bajo su punto de reorden.
func (uc *CatalogUseCase) ListLowStock(ctx context.Context, companyID string) ([]*entity.Item, error) {
	return uc.itemRepo.ListLowStock(companyID)
}

// CreateLocation registra una ubicación/bodega nueva.
func (uc *CatalogUseCase) CreateLocation(ctx context.Context, companyID, name, address string) (*entity.Location, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locRepo.Create(location); err != nil {
		return nil, err
	}
	return location, nil
}

// GetLocation devuelve una ubicación de la empresa.
func (uc *CatalogUseCase) GetLocation(ctx context.Context, companyID, locationID string) (*entity.Location, error) {
	location, err := uc.locRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if location.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return location, nil
}

// ListLocations lista las ubicaciones de la empresa.
func (uc *CatalogUseCase) ListLocations(ctx context.Context, companyID string) ([]*entity.Location, error) {
	return uc.locRepo.ListByCompany(companyID)
}
