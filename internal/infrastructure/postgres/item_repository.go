package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, sku, name, description, quantity, reorder_point, unit_price, unit_measure, lot_tracked, discontinued, created_at, updated_at`

// Create persiste un ítem nuevo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.SKU, item.Name, item.Description,
		item.Quantity, item.ReorderPoint, item.UnitPrice, item.UnitMeasure,
		item.LotTracked, item.Discontinued, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item")
}

// GetByCompanyAndSKU obtiene un ítem por SKU dentro de la empresa.
func (r *ItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE company_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, sku), "get item by sku")
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	item, err := r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item for update")
	if err != nil {
		return nil, translateLockError(err)
	}
	return item, nil
}

// Update actualiza los campos maestros de un ítem (quantity se actualiza solo
// vía UpdateQuantity, dentro de la transacción del movimiento).
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE inventory_items
		SET name = $2, description = $3, reorder_point = $4, unit_price = $5,
		    unit_measure = $6, discontinued = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.ReorderPoint, item.UnitPrice,
		item.UnitMeasure, item.Discontinued, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateQuantity actualiza el total denormalizado del ítem.
func (r *ItemRepo) UpdateQuantity(itemID string, quantity decimal.Decimal) error {
	query := `UPDATE inventory_items SET quantity = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	return nil
}

// ListByCompany lista los ítems de una empresa.
func (r *ItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM inventory_items
		WHERE company_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListLowStock lista ítems activos con stock en o bajo su punto de reorden.
func (r *ItemRepo) ListLowStock(companyID string) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM inventory_items
		WHERE company_id = $1 AND discontinued = false AND quantity <= reorder_point
		ORDER BY quantity / NULLIF(reorder_point, 0) NULLS FIRST, sku`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.Item, error) {
	var i entity.Item
	err := row.Scan(
		&i.ID, &i.CompanyID, &i.SKU, &i.Name, &i.Description, &i.Quantity,
		&i.ReorderPoint, &i.UnitPrice, &i.UnitMeasure, &i.LotTracked,
		&i.Discontinued, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &i, nil
}

func (r *ItemRepo) scanMany(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		var i entity.Item
		if err := rows.Scan(
			&i.ID, &i.CompanyID, &i.SKU, &i.Name, &i.Description, &i.Quantity,
			&i.ReorderPoint, &i.UnitPrice, &i.UnitMeasure, &i.LotTracked,
			&i.Discontinued, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
