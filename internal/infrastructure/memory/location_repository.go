package memory

import (
	"sort"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
	"github.com/jhoicas/ensambles-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación en memoria de LocationRepository.
type LocationRepo struct {
	s *Store
	d *data
}

// NewLocationRepository construye el repo atado al almacén.
func NewLocationRepository(s *Store) *LocationRepo {
	return &LocationRepo{s: s}
}

func (r *LocationRepo) Create(location *entity.Location) error {
	d, release := view(r.s, r.d)
	defer release()
	cp := *location
	d.locations[location.ID] = &cp
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	d, release := view(r.s, r.d)
	defer release()
	l, ok := d.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *LocationRepo) ListByCompany(companyID string) ([]*entity.Location, error) {
	d, release := view(r.s, r.d)
	defer release()
	var list []*entity.Location
	for _, l := range d.locations {
		if l.CompanyID == companyID {
			cp := *l
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
