package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/bom"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo implementación de BOMRepository sobre PostgreSQL.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx.
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

const bomLineColumns = `id, company_id, parent_item_id, component_item_id, quantity_required, unit_measure, display_order, created_at, updated_at`

// CreateLine persiste una línea de la lista de materiales. El par
// (padre, componente) es único: duplicado devuelve ErrDuplicate.
func (r *BOMRepo) CreateLine(line *entity.BOMLine) error {
	query := `
		INSERT INTO bom_lines (` + bomLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.CompanyID, line.ParentItemID, line.ComponentItemID,
		line.QuantityRequired, line.UnitMeasure, line.DisplayOrder,
		line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bom line: %w", err)
	}
	return nil
}

// GetLineByID obtiene una línea por ID.
func (r *BOMRepo) GetLineByID(id string) (*entity.BOMLine, error) {
	query := `SELECT ` + bomLineColumns + ` FROM bom_lines WHERE id = $1`
	return r.scanLine(r.q.QueryRow(context.Background(), query, id), "get bom line")
}

// GetLine obtiene la línea del par (padre, componente) si existe.
func (r *BOMRepo) GetLine(parentItemID, componentItemID string) (*entity.BOMLine, error) {
	query := `SELECT ` + bomLineColumns + ` FROM bom_lines WHERE parent_item_id = $1 AND component_item_id = $2`
	return r.scanLine(r.q.QueryRow(context.Background(), query, parentItemID, componentItemID), "get bom line by pair")
}

// UpdateLine actualiza cantidad, unidad y orden de una línea.
func (r *BOMRepo) UpdateLine(line *entity.BOMLine) error {
	query := `
		UPDATE bom_lines
		SET quantity_required = $2, unit_measure = $3, display_order = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.QuantityRequired, line.UnitMeasure, line.DisplayOrder, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bom line: %w", err)
	}
	return nil
}

// DeleteLine elimina una línea de la lista de materiales.
func (r *BOMRepo) DeleteLine(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM bom_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bom line: %w", err)
	}
	return nil
}

// ListComponents lista las líneas del ensamble anotadas con los datos
// actuales de cada componente (SKU, nombre, precio, stock total).
func (r *BOMRepo) ListComponents(parentItemID string) ([]entity.BOMComponent, error) {
	query := `
		SELECT b.id, b.company_id, b.parent_item_id, b.component_item_id,
		       b.quantity_required, b.unit_measure, b.display_order,
		       b.created_at, b.updated_at,
		       i.sku, i.name, i.unit_price, i.quantity, i.lot_tracked
		FROM bom_lines b
		JOIN inventory_items i ON i.id = b.component_item_id
		WHERE b.parent_item_id = $1
		ORDER BY b.display_order, i.sku`
	rows, err := r.q.Query(context.Background(), query, parentItemID)
	if err != nil {
		return nil, fmt.Errorf("list bom components: %w", err)
	}
	defer rows.Close()

	var list []entity.BOMComponent
	for rows.Next() {
		var c entity.BOMComponent
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.ParentItemID, &c.ComponentItemID,
			&c.QuantityRequired, &c.UnitMeasure, &c.DisplayOrder,
			&c.CreatedAt, &c.UpdatedAt,
			&c.ComponentSKU, &c.ComponentName, &c.UnitPrice, &c.AvailableQty, &c.LotTracked,
		); err != nil {
			return nil, fmt.Errorf("scan bom component: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListWhereUsed es el índice inverso: ensambles cuya lista de materiales
// referencia al componente, con el stock actual de cada padre.
func (r *BOMRepo) ListWhereUsed(componentItemID string) ([]entity.WhereUsedEntry, error) {
	query := `
		SELECT b.id, b.parent_item_id, i.sku, i.name, i.quantity, b.quantity_required
		FROM bom_lines b
		JOIN inventory_items i ON i.id = b.parent_item_id
		WHERE b.component_item_id = $1
		ORDER BY i.sku`
	rows, err := r.q.Query(context.Background(), query, componentItemID)
	if err != nil {
		return nil, fmt.Errorf("list where used: %w", err)
	}
	defer rows.Close()

	var list []entity.WhereUsedEntry
	for rows.Next() {
		var e entity.WhereUsedEntry
		if err := rows.Scan(
			&e.BOMLineID, &e.ParentItemID, &e.ParentSKU, &e.ParentName,
			&e.ParentQuantity, &e.QuantityRequired,
		); err != nil {
			return nil, fmt.Errorf("scan where used: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Adjacency construye el grafo padre→componentes de toda la empresa.
func (r *BOMRepo) Adjacency(companyID string) (bom.Graph, error) {
	query := `SELECT parent_item_id, component_item_id FROM bom_lines WHERE company_id = $1`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("load bom graph: %w", err)
	}
	defer rows.Close()

	graph := bom.Graph{}
	for rows.Next() {
		var parent, component string
		if err := rows.Scan(&parent, &component); err != nil {
			return nil, fmt.Errorf("scan bom edge: %w", err)
		}
		graph.AddEdge(parent, component)
	}
	return graph, rows.Err()
}

func (r *BOMRepo) scanLine(row pgx.Row, op string) (*entity.BOMLine, error) {
	var l entity.BOMLine
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.ParentItemID, &l.ComponentItemID,
		&l.QuantityRequired, &l.UnitMeasure, &l.DisplayOrder,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}
