package assembly

import (
	"context"

	"github.com/jhoicas/ensambles-api/internal/domain"
	domaininv "github.com/jhoicas/ensambles-api/internal/domain/inventory"
)

// GetAvailability calcula cuántas unidades del ensamble se pueden construir
// ahora mismo con el stock de componentes. Es una lectura pura y consultiva:
// corre sin bloqueos y tolera lecturas levemente desactualizadas; el ejecutor
// de Build siempre revalida sobre filas bloqueadas dentro de su transacción.
func (uc *AssemblyUseCase) GetAvailability(ctx context.Context, companyID, itemID string) (domaininv.Availability, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return domaininv.Availability{}, err
	}
	if item == nil {
		return domaininv.Availability{}, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return domaininv.Availability{}, domain.ErrForbidden
	}

	components, err := uc.bomRepo.ListComponents(itemID)
	if err != nil {
		return domaininv.Availability{}, err
	}
	return domaininv.MaxBuildable(components), nil
}
