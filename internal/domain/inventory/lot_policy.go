package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// LotAllocation indica cuánto consumir de un lote concreto.
type LotAllocation struct {
	LotID    string
	Quantity decimal.Decimal
}

// SortByExpiration ordena lotes para consumo: primero los de vencimiento más
// próximo (FIFO por vencimiento); lotes sin fecha de vencimiento al final.
// Empates se resuelven por fecha de creación para un orden estable.
func SortByExpiration(lots []*entity.ItemLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i].ExpirationDate, lots[j].ExpirationDate
		switch {
		case a == nil && b == nil:
			return lots[i].CreatedAt.Before(lots[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return lots[i].CreatedAt.Before(lots[j].CreatedAt)
		default:
			return a.Before(*b)
		}
	})
}

// AllocateFromLots reparte una cantidad a consumir entre los lotes dados según
// la política de vencimiento. Devuelve las asignaciones y lo que quedó sin
// cubrir (positivo cuando los lotes no alcanzan).
func AllocateFromLots(lots []*entity.ItemLot, quantity decimal.Decimal) ([]LotAllocation, decimal.Decimal) {
	SortByExpiration(lots)
	remaining := quantity
	var allocations []LotAllocation
	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		if !lot.Quantity.IsPositive() {
			continue
		}
		take := decimal.Min(lot.Quantity, remaining)
		allocations = append(allocations, LotAllocation{LotID: lot.ID, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return allocations, remaining
}
