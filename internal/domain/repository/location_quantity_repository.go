package repository

import "github.com/jhoicas/ensambles-api/internal/domain/entity"

// LocationQuantityRepository define el puerto para consultar/actualizar stock
// por ítem+ubicación. Las escrituras ocurren solo dentro de transacciones para
// mantener el invariante suma(ubicaciones) == total del ítem.
type LocationQuantityRepository interface {
	Get(itemID, locationID string) (*entity.LocationQuantity, error)
	Upsert(lq *entity.LocationQuantity) error
	ListByItem(itemID string) ([]*entity.LocationQuantity, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); bajo lock_timeout el
	// bloqueo fallido se reporta como domain.ErrContention.
	GetForUpdate(itemID, locationID string) (*entity.LocationQuantity, error)
}
