package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error)
	// ListLowStock lista ítems con stock en o bajo su punto de reorden.
	ListLowStock(companyID string) ([]*entity.Item, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE) dentro de una tx.
	GetForUpdate(id string) (*entity.Item, error)
	// UpdateQuantity actualiza el total denormalizado; solo dentro de la misma
	// transacción que registra el movimiento que lo justifica.
	UpdateQuantity(itemID string, quantity decimal.Decimal) error
}
