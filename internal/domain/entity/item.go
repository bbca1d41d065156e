package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de un ítem según stock vs. punto de reorden.
const (
	ItemStatusInStock      = "in_stock"
	ItemStatusLowStock     = "low_stock"
	ItemStatusOutOfStock   = "out_of_stock"
	ItemStatusDiscontinued = "discontinued"
)

// Item representa un producto o SKU del inventario (multi-ubicación).
// Quantity es el total denormalizado entre todas las ubicaciones: es una caché
// del libro de movimientos y solo se muta dentro de la misma transacción que
// el movimiento que la justifica.
type Item struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Description  string
	Quantity     decimal.Decimal // total denormalizado
	ReorderPoint decimal.Decimal
	UnitPrice    decimal.Decimal
	UnitMeasure  string
	LotTracked   bool // si true, el stock se subdivide en lotes
	Discontinued bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Status deriva el estado de presentación del ítem; no se persiste.
func (i *Item) Status() string {
	if i.Discontinued {
		return ItemStatusDiscontinued
	}
	switch {
	case i.Quantity.LessThanOrEqual(decimal.Zero):
		return ItemStatusOutOfStock
	case i.Quantity.LessThanOrEqual(i.ReorderPoint):
		return ItemStatusLowStock
	default:
		return ItemStatusInStock
	}
}
