// Package bom implementa el acceso a las listas de materiales: líneas de
// composición de un ensamble, validación de aciclicidad al agregar aristas y
// el índice inverso "dónde se usa" de un componente.
package bom

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

// BOMUseCase administra las líneas de lista de materiales de la empresa.
type BOMUseCase struct {
	bomRepo  repository.BOMRepository
	itemRepo repository.ItemRepository
}

// NewBOMUseCase construye el caso de uso.
func NewBOMUseCase(bomRepo repository.BOMRepository, itemRepo repository.ItemRepository) *BOMUseCase {
	return &BOMUseCase{bomRepo: bomRepo, itemRepo: itemRepo}
}

// AddComponentInput entrada para agregar una línea BOM.
type AddComponentInput struct {
	CompanyID        string
	ParentItemID     string
	ComponentItemID  string
	QuantityRequired decimal.Decimal
	UnitMeasure      string
	DisplayOrder     int
}

// AddComponent agrega una línea padre→componente. Rechaza autorreferencias
// (ErrInvalidComponent) y aristas que cerrarían un ciclo en el grafo de
// componentes de la empresa (ErrCyclicBOM); la verificación recorre el grafo
// existente antes de confirmar la arista, así que un rechazo no deja cambios.
func (uc *BOMUseCase) AddComponent(ctx context.Context, input AddComponentInput) (*entity.BOMLine, error) {
	if input.ParentItemID == "" || input.ComponentItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.ParentItemID == input.ComponentItemID {
		return nil, domain.ErrInvalidComponent
	}
	if !input.QuantityRequired.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	parent, err := uc.ownedItem(input.CompanyID, input.ParentItemID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.ownedItem(input.CompanyID, input.ComponentItemID); err != nil {
		return nil, err
	}

	if existing, err := uc.bomRepo.GetLine(input.ParentItemID, input.ComponentItemID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	graph, err := uc.bomRepo.Adjacency(input.CompanyID)
	if err != nil {
		return nil, err
	}
	if graph.WouldCycle(input.ParentItemID, input.ComponentItemID) {
		return nil, domain.ErrCyclicBOM
	}

	now := time.Now()
	line := &entity.BOMLine{
		ID:               uuid.New().String(),
		CompanyID:        parent.CompanyID,
		ParentItemID:     input.ParentItemID,
		ComponentItemID:  input.ComponentItemID,
		QuantityRequired: input.QuantityRequired,
		UnitMeasure:      input.UnitMeasure,
		DisplayOrder:     input.DisplayOrder,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.bomRepo.CreateLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateComponent cambia cantidad requerida, unidad u orden de una línea.
// El par padre→componente es inmutable: para cambiar de componente se elimina
// la línea y se agrega otra (que vuelve a pasar por la validación de ciclos).
func (uc *BOMUseCase) UpdateComponent(ctx context.Context, companyID, lineID string, quantityRequired decimal.Decimal, unitMeasure string, displayOrder int) (*entity.BOMLine, error) {
	if !quantityRequired.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	line, err := uc.ownedLine(companyID, lineID)
	if err != nil {
		return nil, err
	}
	line.QuantityRequired = quantityRequired
	if unitMeasure != "" {
		line.UnitMeasure = unitMeasure
	}
	line.DisplayOrder = displayOrder
	line.UpdatedAt = time.Now()
	if err := uc.bomRepo.UpdateLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveComponent elimina una línea BOM. Las líneas se editan con
// independencia del stock: eliminar una línea no mueve inventario.
func (uc *BOMUseCase) RemoveComponent(ctx context.Context, companyID, lineID string) error {
	line, err := uc.ownedLine(companyID, lineID)
	if err != nil {
		return err
	}
	return uc.bomRepo.DeleteLine(line.ID)
}

// GetComponents lista las líneas del ensamble ordenadas por display_order,
// anotadas con los datos actuales de cada componente.
func (uc *BOMUseCase) GetComponents(ctx context.Context, companyID, parentItemID string) ([]entity.BOMComponent, error) {
	if _, err := uc.ownedItem(companyID, parentItemID); err != nil {
		return nil, err
	}
	return uc.bomRepo.ListComponents(parentItemID)
}

// GetWhereUsed devuelve los ensambles que referencian al componente, con el
// stock actual de cada padre (se usa para advertir antes de eliminar un
// componente muy referenciado). Es una vista derivada, recalculada bajo demanda.
func (uc *BOMUseCase) GetWhereUsed(ctx context.Context, companyID, componentItemID string) ([]entity.WhereUsedEntry, error) {
	if _, err := uc.ownedItem(companyID, componentItemID); err != nil {
		return nil, err
	}
	return uc.bomRepo.ListWhereUsed(componentItemID)
}

func (uc *BOMUseCase) ownedItem(companyID, itemID string) (*entity.Item, error) {
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

func (uc *BOMUseCase) ownedLine(companyID, lineID string) (*entity.BOMLine, error) {
	line, err := uc.bomRepo.GetLineByID(lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	if line.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return line, nil
}
