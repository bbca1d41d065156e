// Package audit define el puerto hacia el colector externo de auditoría.
// El subsistema emite eventos después de cada operación exitosa; un fallo al
// emitir se registra en el log pero nunca revierte la transacción del libro.
package audit

import "context"

// Event es el evento de auditoría que se emite tras una operación exitosa.
type Event struct {
	CompanyID  string
	UserID     string
	Action     string // movement_applied, build, unbuild, lot_created, ...
	EntityType string
	EntityID   string
	ExtraData  map[string]any
}

// Sink es el colector externo de eventos de auditoría.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}
