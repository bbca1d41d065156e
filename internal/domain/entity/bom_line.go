package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMLine representa una línea de la lista de materiales de un ensamble:
// cuánto del componente se necesita para construir una unidad del padre.
// El grafo dirigido padre→componente debe ser acíclico.
type BOMLine struct {
	ID               string
	CompanyID        string
	ParentItemID     string
	ComponentItemID  string
	QuantityRequired decimal.Decimal // > 0
	UnitMeasure      string
	DisplayOrder     int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BOMComponent es una línea anotada con los datos actuales del componente
// (para listados y para el cálculo de disponibilidad).
type BOMComponent struct {
	BOMLine
	ComponentSKU   string
	ComponentName  string
	UnitPrice      decimal.Decimal
	AvailableQty   decimal.Decimal // total del componente entre ubicaciones
	LotTracked     bool
}

// WhereUsedEntry indica un ensamble que referencia al componente consultado,
// con el stock actual del padre (para advertir antes de eliminar el componente).
type WhereUsedEntry struct {
	BOMLineID        string
	ParentItemID     string
	ParentSKU        string
	ParentName       string
	ParentQuantity   decimal.Decimal
	QuantityRequired decimal.Decimal
}
