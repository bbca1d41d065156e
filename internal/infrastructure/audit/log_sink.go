// Package audit contiene adaptadores del puerto de auditoría.
package audit

import (
	"context"

	"github.com/rs/zerolog"

	appaudit "github.com/jhoicas/ensambles-api/internal/application/audit"
)

var _ appaudit.Sink = (*LogSink)(nil)

// LogSink emite los eventos de auditoría como entradas estructuradas del log.
// Sirve como colector por defecto; en despliegues con un colector externo se
// reemplaza por el adaptador correspondiente sin tocar los casos de uso.
type LogSink struct {
	zl zerolog.Logger
}

// NewLogSink construye el colector sobre el logger dado.
func NewLogSink(zl zerolog.Logger) *LogSink {
	return &LogSink{zl: zl}
}

// Emit registra el evento con nivel info.
func (s *LogSink) Emit(_ context.Context, event appaudit.Event) error {
	entry := s.zl.Info().
		Str("audit_action", event.Action).
		Str("company_id", event.CompanyID).
		Str("user_id", event.UserID).
		Str("entity_type", event.EntityType).
		Str("entity_id", event.EntityID)
	if len(event.ExtraData) > 0 {
		entry = entry.Interface("extra", event.ExtraData)
	}
	entry.Msg("evento de auditoría")
	return nil
}
