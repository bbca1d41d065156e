package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL.
// El libro es append-only: este adaptador solo inserta y lee.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, transaction_id, item_id, movement_type, quantity, from_location_id, to_location_id, lot_id, reference_number, notes, created_at, created_by`

// Create inserta un movimiento en el libro.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.TransactionID, m.ItemID, m.Type, m.Quantity,
		nullIfEmpty(m.FromLocationID), nullIfEmpty(m.ToLocationID), nullIfEmpty(m.LotID),
		m.ReferenceNumber, m.Notes, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByItem pagina el historial del ítem en orden cronológico inverso. El
// saldo acumulado se calcula con una window function sobre el orden de
// aplicación, de modo que cada página trae saldos correctos sin recorrer todo
// el libro en la aplicación.
func (r *StockMovementRepo) ListByItem(itemID string, limit, offset int) ([]*entity.MovementWithBalance, error) {
	query := `
		SELECT ` + movementColumns + `, running_balance FROM (
			SELECT ` + movementColumns + `,
			       SUM(quantity) OVER (ORDER BY created_at, id) AS running_balance
			FROM stock_movements
			WHERE item_id = $1
		) h
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MovementWithBalance
	for rows.Next() {
		var m entity.MovementWithBalance
		var fromLoc, toLoc, lotID *string
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.TransactionID, &m.ItemID, &m.Type, &m.Quantity,
			&fromLoc, &toLoc, &lotID, &m.ReferenceNumber, &m.Notes,
			&m.CreatedAt, &m.CreatedBy, &m.RunningBalance,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.FromLocationID = deref(fromLoc)
		m.ToLocationID = deref(toLoc)
		m.LotID = deref(lotID)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListByItemAsc devuelve todos los movimientos del ítem en orden de
// aplicación, para reconstruir su estado por repetición.
func (r *StockMovementRepo) ListByItemAsc(itemID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE item_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list movements asc: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var fromLoc, toLoc, lotID *string
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.TransactionID, &m.ItemID, &m.Type, &m.Quantity,
			&fromLoc, &toLoc, &lotID, &m.ReferenceNumber, &m.Notes,
			&m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.FromLocationID = deref(fromLoc)
		m.ToLocationID = deref(toLoc)
		m.LotID = deref(lotID)
		list = append(list, &m)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
