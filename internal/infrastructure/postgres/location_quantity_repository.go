package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.LocationQuantityRepository = (*LocationQuantityRepo)(nil)

// LocationQuantityRepo implementación de LocationQuantityRepository sobre PostgreSQL.
type LocationQuantityRepo struct {
	q Querier
}

// NewLocationQuantityRepository construye el adaptador. Pasar pool o tx.
func NewLocationQuantityRepository(q Querier) *LocationQuantityRepo {
	return &LocationQuantityRepo{q: q}
}

// Get obtiene el stock del ítem en la ubicación. Si no hay fila devuelve una
// entidad con cantidad cero (ausencia de fila == sin stock, no es error).
func (r *LocationQuantityRepo) Get(itemID, locationID string) (*entity.LocationQuantity, error) {
	query := `
		SELECT item_id, location_id, quantity, bin_location, updated_at
		FROM location_quantities WHERE item_id = $1 AND location_id = $2`
	lq, err := scanLocationQuantity(r.q.QueryRow(context.Background(), query, itemID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.LocationQuantity{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get location quantity: %w", err)
	}
	return lq, nil
}

// GetForUpdate obtiene y bloquea la fila de stock (SELECT FOR UPDATE). Si no
// existe devuelve cantidad cero sin bloquear nada: el Upsert posterior crea la
// fila y el bloqueo del ítem padre serializa los escritores concurrentes.
func (r *LocationQuantityRepo) GetForUpdate(itemID, locationID string) (*entity.LocationQuantity, error) {
	query := `
		SELECT item_id, location_id, quantity, bin_location, updated_at
		FROM location_quantities WHERE item_id = $1 AND location_id = $2 FOR UPDATE`
	lq, err := scanLocationQuantity(r.q.QueryRow(context.Background(), query, itemID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.LocationQuantity{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, translateLockError(fmt.Errorf("lock location quantity: %w", err))
	}
	return lq, nil
}

// Upsert crea o actualiza la fila de stock del ítem en la ubicación.
func (r *LocationQuantityRepo) Upsert(lq *entity.LocationQuantity) error {
	query := `
		INSERT INTO location_quantities (item_id, location_id, quantity, bin_location, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, lq.ItemID, lq.LocationID, lq.Quantity, lq.BinLocation)
	if err != nil {
		return fmt.Errorf("upsert location quantity: %w", err)
	}
	return nil
}

// ListByItem lista el stock del ítem por ubicación.
func (r *LocationQuantityRepo) ListByItem(itemID string) ([]*entity.LocationQuantity, error) {
	query := `
		SELECT item_id, location_id, quantity, bin_location, updated_at
		FROM location_quantities WHERE item_id = $1 ORDER BY location_id`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list location quantities: %w", err)
	}
	defer rows.Close()
	var list []*entity.LocationQuantity
	for rows.Next() {
		var lq entity.LocationQuantity
		if err := rows.Scan(&lq.ItemID, &lq.LocationID, &lq.Quantity, &lq.BinLocation, &lq.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location quantity: %w", err)
		}
		list = append(list, &lq)
	}
	return list, rows.Err()
}

func scanLocationQuantity(row pgx.Row) (*entity.LocationQuantity, error) {
	var lq entity.LocationQuantity
	err := row.Scan(&lq.ItemID, &lq.LocationID, &lq.Quantity, &lq.BinLocation, &lq.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &lq, nil
}
