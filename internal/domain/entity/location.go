package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location representa una bodega o ubicación física donde se almacena inventario.
type Location struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LocationQuantity representa el stock actual de un ítem en una ubicación
// (fila materializada; la suma sobre ubicaciones debe igualar Item.Quantity).
type LocationQuantity struct {
	ItemID      string
	LocationID  string
	Quantity    decimal.Decimal
	BinLocation string // estante/posición dentro de la bodega, opcional
	UpdatedAt   time.Time
}
