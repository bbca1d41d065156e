package inventory

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/ensambles-api/internal/domain"
	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// GetHistory devuelve una página del historial de movimientos del ítem en
// orden cronológico inverso, cada fila anotada con el saldo acumulado después
// de aplicarla. La secuencia es reiniciable vía limit/offset; el libro nunca
// se edita, así que las páginas ya leídas no cambian.
func (uc *LedgerUseCase) GetHistory(ctx context.Context, companyID, itemID string, limit, offset int) ([]*entity.MovementWithBalance, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movRepo.ListByItem(itemID, limit, offset)
}

func logAuditFailure(err error, entityID string) {
	log.Warn().Err(err).Str("entity_id", entityID).Msg("no se pudo emitir evento de auditoría")
}
