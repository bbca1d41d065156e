package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo implementación de WorkOrderRepository sobre PostgreSQL.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx.
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

const workOrderColumns = `id, company_id, order_number, item_id, location_id, quantity_planned, quantity_completed, status, notes, due_date, created_at, updated_at, created_by`

// Create persiste una orden de trabajo nueva. Número de orden duplicado
// dentro de la empresa devuelve ErrDuplicate.
func (r *WorkOrderRepo) Create(order *entity.WorkOrder) error {
	query := `
		INSERT INTO work_orders (` + workOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.OrderNumber, order.ItemID, order.LocationID,
		order.QuantityPlanned, order.QuantityCompleted, order.Status, order.Notes,
		order.DueDate, order.CreatedAt, order.UpdatedAt, order.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de trabajo por ID.
func (r *WorkOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get work order")
}

// GetForUpdate obtiene la orden y bloquea la fila (SELECT FOR UPDATE).
func (r *WorkOrderRepo) GetForUpdate(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1 FOR UPDATE`
	order, err := r.scanOne(r.q.QueryRow(context.Background(), query, id), "lock work order")
	if err != nil {
		return nil, translateLockError(err)
	}
	return order, nil
}

// ListByCompany lista las órdenes de la empresa, opcionalmente filtradas por estado.
func (r *WorkOrderRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.WorkOrder, error) {
	query := `
		SELECT ` + workOrderColumns + ` FROM work_orders
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.WorkOrder
	for rows.Next() {
		var w entity.WorkOrder
		if err := rows.Scan(
			&w.ID, &w.CompanyID, &w.OrderNumber, &w.ItemID, &w.LocationID,
			&w.QuantityPlanned, &w.QuantityCompleted, &w.Status, &w.Notes,
			&w.DueDate, &w.CreatedAt, &w.UpdatedAt, &w.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// Update actualiza estado, cantidad completada y notas de la orden.
func (r *WorkOrderRepo) Update(order *entity.WorkOrder) error {
	query := `
		UPDATE work_orders
		SET status = $2, quantity_completed = $3, notes = $4, due_date = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.QuantityCompleted, order.Notes,
		order.DueDate, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	return nil
}

func (r *WorkOrderRepo) scanOne(row pgx.Row, op string) (*entity.WorkOrder, error) {
	var w entity.WorkOrder
	err := row.Scan(
		&w.ID, &w.CompanyID, &w.OrderNumber, &w.ItemID, &w.LocationID,
		&w.QuantityPlanned, &w.QuantityCompleted, &w.Status, &w.Notes,
		&w.DueDate, &w.CreatedAt, &w.UpdatedAt, &w.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &w, nil
}
