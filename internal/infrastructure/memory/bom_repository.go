package memory

import (
	"sort"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/bom"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo implementación en memoria de BOMRepository.
type BOMRepo struct {
	s *Store
	d *data
}

// NewBOMRepository construye el repo atado al almacén.
func NewBOMRepository(s *Store) *BOMRepo {
	return &BOMRepo{s: s}
}

func (r *BOMRepo) CreateLine(line *entity.BOMLine) error {
	d, release := view(r.s, r.d)
	defer release()
	for _, existing := range d.bomLines {
		if existing.ParentItemID == line.ParentItemID && existing.ComponentItemID == line.ComponentItemID {
			return domain.ErrDuplicate
		}
	}
	cp := *line
	d.bomLines[line.ID] = &cp
	return nil
}

func (r *BOMRepo) GetLineByID(id string) (*entity.BOMLine, error) {
	d, release := view(r.s, r.d)
	defer release()
	line, ok := d.bomLines[id]
	if !ok {
		return nil, nil
	}
	cp := *line
	return &cp, nil
}

func (r *BOMRepo) GetLine(parentItemID, componentItemID string) (*entity.BOMLine, error) {
	d, release := view(r.s, r.d)
	defer release()
	for _, line := range d.bomLines {
		if line.ParentItemID == parentItemID && line.ComponentItemID == componentItemID {
			cp := *line
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *BOMRepo) UpdateLine(line *entity.BOMLine) error {
	d, release := view(r.s, r.d)
	defer release()
	existing, ok := d.bomLines[line.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.QuantityRequired = line.QuantityRequired
	existing.UnitMeasure = line.UnitMeasure
	existing.DisplayOrder = line.DisplayOrder
	existing.UpdatedAt = line.UpdatedAt
	return nil
}

func (r *BOMRepo) DeleteLine(id string) error {
	d, release := view(r.s, r.d)
	defer release()
	delete(d.bomLines, id)
	return nil
}

func (r *BOMRepo) ListComponents(parentItemID string) ([]entity.BOMComponent, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []entity.BOMComponent
	for _, line := range d.bomLines {
		if line.ParentItemID != parentItemID {
			continue
		}
		c := entity.BOMComponent{BOMLine: *line}
		if item, ok := d.items[line.ComponentItemID]; ok {
			c.ComponentSKU = item.SKU
			c.ComponentName = item.Name
			c.UnitPrice = item.UnitPrice
			c.AvailableQty = item.Quantity
			c.LotTracked = item.LotTracked
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].DisplayOrder != list[j].DisplayOrder {
			return list[i].DisplayOrder < list[j].DisplayOrder
		}
		return list[i].ComponentSKU < list[j].ComponentSKU
	})
	return list, nil
}

func (r *BOMRepo) ListWhereUsed(componentItemID string) ([]entity.WhereUsedEntry, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []entity.WhereUsedEntry
	for _, line := range d.bomLines {
		if line.ComponentItemID != componentItemID {
			continue
		}
		e := entity.WhereUsedEntry{
			BOMLineID:        line.ID,
			ParentItemID:     line.ParentItemID,
			QuantityRequired: line.QuantityRequired,
		}
		if item, ok := d.items[line.ParentItemID]; ok {
			e.ParentSKU = item.SKU
			e.ParentName = item.Name
			e.ParentQuantity = item.Quantity
		}
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ParentSKU < list[j].ParentSKU })
	return list, nil
}

func (r *BOMRepo) Adjacency(companyID string) (bom.Graph, error) {
	d, release := view(r.s, r.d)
	defer release()
	graph := bom.Graph{}
	for _, line := range d.bomLines {
		if line.CompanyID == companyID {
			graph.AddEdge(line.ParentItemID, line.ComponentItemID)
		}
	}
	return graph, nil
}
