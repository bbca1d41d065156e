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

var _ repository.ItemLotRepository = (*ItemLotRepo)(nil)

// ItemLotRepo implementación de ItemLotRepository sobre PostgreSQL.
type ItemLotRepo struct {
	q Querier
}

// NewItemLotRepository construye el adaptador. Pasar pool o tx.
func NewItemLotRepository(q Querier) *ItemLotRepo {
	return &ItemLotRepo{q: q}
}

const lotColumns = `id, company_id, item_id, lot_number, serial_number, quantity, location_id, expiration_date, manufacture_date, created_at, updated_at`

// Create persiste un lote nuevo. Número de lote duplicado dentro del
// empresa+ítem devuelve ErrDuplicateLotNumber.
func (r *ItemLotRepo) Create(lot *entity.ItemLot) error {
	query := `
		INSERT INTO item_lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.CompanyID, lot.ItemID, lot.LotNumber, lot.SerialNumber,
		lot.Quantity, lot.LocationID, lot.ExpirationDate, lot.ManufactureDate,
		lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLotNumber
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *ItemLotRepo) GetByID(id string) (*entity.ItemLot, error) {
	query := `SELECT ` + lotColumns + ` FROM item_lots WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lot")
}

// GetByLotNumber obtiene un lote por su número dentro del empresa+ítem.
func (r *ItemLotRepo) GetByLotNumber(companyID, itemID, lotNumber string) (*entity.ItemLot, error) {
	query := `SELECT ` + lotColumns + ` FROM item_lots WHERE company_id = $1 AND item_id = $2 AND lot_number = $3`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, itemID, lotNumber), "get lot by number")
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemLotRepo) GetForUpdate(id string) (*entity.ItemLot, error) {
	query := `SELECT ` + lotColumns + ` FROM item_lots WHERE id = $1 FOR UPDATE`
	lot, err := r.scanOne(r.q.QueryRow(context.Background(), query, id), "lock lot")
	if err != nil {
		return nil, translateLockError(err)
	}
	return lot, nil
}

// ListByItem lista los lotes del ítem (todas las ubicaciones), vencimiento más
// próximo primero; lotes sin vencimiento al final.
func (r *ItemLotRepo) ListByItem(itemID string) ([]*entity.ItemLot, error) {
	query := `
		SELECT ` + lotColumns + ` FROM item_lots
		WHERE item_id = $1
		ORDER BY expiration_date ASC NULLS LAST, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListByItemAndLocation lista y bloquea (FOR UPDATE) los lotes del ítem en la
// ubicación, en orden de asignación de consumo. Llamar solo dentro de una tx
// con el ítem padre ya bloqueado.
func (r *ItemLotRepo) ListByItemAndLocation(itemID, locationID string) ([]*entity.ItemLot, error) {
	query := `
		SELECT ` + lotColumns + ` FROM item_lots
		WHERE item_id = $1 AND location_id = $2
		ORDER BY expiration_date ASC NULLS LAST, created_at ASC
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, itemID, locationID)
	if err != nil {
		return nil, translateLockError(fmt.Errorf("lock lots: %w", err))
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// UpdateQuantity actualiza la cantidad restante del lote.
func (r *ItemLotRepo) UpdateQuantity(lotID string, quantity decimal.Decimal) error {
	query := `UPDATE item_lots SET quantity = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lotID, quantity)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	return nil
}

// UpdateLocation traslada el lote completo a otra ubicación.
func (r *ItemLotRepo) UpdateLocation(lotID, locationID string) error {
	query := `UPDATE item_lots SET location_id = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lotID, locationID)
	if err != nil {
		return fmt.Errorf("update lot location: %w", err)
	}
	return nil
}

func (r *ItemLotRepo) scanOne(row pgx.Row, op string) (*entity.ItemLot, error) {
	var l entity.ItemLot
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.ItemID, &l.LotNumber, &l.SerialNumber,
		&l.Quantity, &l.LocationID, &l.ExpirationDate, &l.ManufactureDate,
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

func (r *ItemLotRepo) scanMany(rows pgx.Rows) ([]*entity.ItemLot, error) {
	var list []*entity.ItemLot
	for rows.Next() {
		var l entity.ItemLot
		if err := rows.Scan(
			&l.ID, &l.CompanyID, &l.ItemID, &l.LotNumber, &l.SerialNumber,
			&l.Quantity, &l.LocationID, &l.ExpirationDate, &l.ManufactureDate,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
