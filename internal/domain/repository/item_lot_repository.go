package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// ItemLotRepository define el puerto de persistencia para lotes de ítems.
type ItemLotRepository interface {
	Create(lot *entity.ItemLot) error
	GetByID(id string) (*entity.ItemLot, error)
	GetByLotNumber(companyID, itemID, lotNumber string) (*entity.ItemLot, error)
	ListByItem(itemID string) ([]*entity.ItemLot, error)
	// ListByItemAndLocation lista los lotes del ítem en una ubicación,
	// bloqueando las filas (FOR UPDATE) para asignación de consumo.
	ListByItemAndLocation(itemID, locationID string) ([]*entity.ItemLot, error)
	GetForUpdate(id string) (*entity.ItemLot, error)
	UpdateQuantity(lotID string, quantity decimal.Decimal) error
	UpdateLocation(lotID, locationID string) error
}
