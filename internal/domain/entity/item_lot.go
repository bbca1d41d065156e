package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación de lotes según su fecha de vencimiento (presentación, no se persiste).
const (
	LotStateActive   = "active"
	LotStateExpiring = "expiring" // vence dentro de 30 días
	LotStateExpired  = "expired"
)

// ItemLot representa un lote o serie de un ítem con seguimiento por lote.
// Cuando un ítem tiene lotes, la suma de sus cantidades iguala Item.Quantity.
// Un lote vive en una sola ubicación; trasladarlo cambia LocationID.
type ItemLot struct {
	ID              string
	CompanyID       string
	ItemID          string
	LotNumber       string // único por empresa+ítem
	SerialNumber    string
	Quantity        decimal.Decimal
	LocationID      string
	ExpirationDate  *time.Time
	ManufactureDate *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// State clasifica el lote respecto a la fecha de referencia dada. El
// vencimiento se compara por día calendario: un lote que vence hoy sigue
// siendo despachable hasta el final del día.
func (l *ItemLot) State(today time.Time) string {
	if l.ExpirationDate == nil {
		return LotStateActive
	}
	day := startOfDay(today)
	switch {
	case startOfDay(*l.ExpirationDate).Before(day):
		return LotStateExpired
	case startOfDay(*l.ExpirationDate).Before(day.AddDate(0, 0, 30)):
		return LotStateExpiring
	default:
		return LotStateActive
	}
}

// Expired indica si el lote ya venció respecto a la fecha dada (por día
// calendario, no por instante).
func (l *ItemLot) Expired(today time.Time) bool {
	if l.ExpirationDate == nil {
		return false
	}
	return startOfDay(*l.ExpirationDate).Before(startOfDay(today))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
