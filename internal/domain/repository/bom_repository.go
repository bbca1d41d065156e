package repository

import (
	"github.com/jhoicas/ensambles-api/internal/domain/bom"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// BOMRepository define el puerto de persistencia para líneas de lista de materiales.
type BOMRepository interface {
	CreateLine(line *entity.BOMLine) error
	GetLineByID(id string) (*entity.BOMLine, error)
	GetLine(parentItemID, componentItemID string) (*entity.BOMLine, error)
	UpdateLine(line *entity.BOMLine) error
	DeleteLine(id string) error
	// ListComponents lista las líneas del padre ordenadas por display_order,
	// anotadas con SKU, nombre, precio y stock actual del componente.
	ListComponents(parentItemID string) ([]entity.BOMComponent, error)
	// ListWhereUsed es el índice inverso: ensambles que referencian al componente.
	ListWhereUsed(componentItemID string) ([]entity.WhereUsedEntry, error)
	// Adjacency construye el grafo padre→componentes de la empresa para
	// detección de ciclos antes de agregar una arista.
	Adjacency(companyID string) (bom.Graph, error)
}
