package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una orden de trabajo.
const (
	WorkOrderDraft      = "draft"
	WorkOrderPending    = "pending"
	WorkOrderInProgress = "in_progress"
	WorkOrderOnHold     = "on_hold"
	WorkOrderCompleted  = "completed"
	WorkOrderCancelled  = "cancelled"
)

// workOrderTransitions define las transiciones permitidas del ciclo de vida:
// draft → pending → in_progress → {on_hold ↔ in_progress} → completed|cancelled.
var workOrderTransitions = map[string][]string{
	WorkOrderDraft:      {WorkOrderPending, WorkOrderCancelled},
	WorkOrderPending:    {WorkOrderInProgress, WorkOrderCancelled},
	WorkOrderInProgress: {WorkOrderOnHold, WorkOrderCompleted, WorkOrderCancelled},
	WorkOrderOnHold:     {WorkOrderInProgress, WorkOrderCancelled},
}

// WorkOrder representa una orden de producción de un ensamble. A diferencia de
// Build/Unbuild (transiciones atómicas sin estado intermedio), la orden tiene
// un ciclo de vida persistente; al registrar cantidad completada invoca Build.
type WorkOrder struct {
	ID                string
	CompanyID         string
	OrderNumber       string
	ItemID            string // ensamble a producir
	LocationID        string
	QuantityPlanned   decimal.Decimal
	QuantityCompleted decimal.Decimal
	Status            string
	Notes             string
	DueDate           *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CreatedBy         string
}

// CanTransition indica si el paso de estado solicitado está permitido.
func (w *WorkOrder) CanTransition(to string) bool {
	for _, s := range workOrderTransitions[w.Status] {
		if s == to {
			return true
		}
	}
	return false
}
