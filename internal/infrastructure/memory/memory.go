// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con transacciones copy-on-write. Se usa en pruebas de los casos de
// uso y como backend efímero de desarrollo; el contrato es el mismo que el de
// los adaptadores PostgreSQL.
package memory

import (
	"sync"

	"github.com/jhoicas/ensambles-api/internal/domain/entity"
)

// Store contiene el estado compartido. Todas las operaciones fuera de
// transacción toman el mutex; una transacción lo retiene completo, por lo que
// los escritores concurrentes quedan serializados (equivalente en memoria al
// bloqueo de filas de PostgreSQL).
type Store struct {
	mu sync.Mutex
	d  *data
}

type data struct {
	items      map[string]*entity.Item
	locations  map[string]*entity.Location
	quantities map[string]*entity.LocationQuantity // itemID|locationID
	lots       map[string]*entity.ItemLot
	movements  []*entity.StockMovement
	bomLines   map[string]*entity.BOMLine
	workOrders map[string]*entity.WorkOrder
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

func newData() *data {
	return &data{
		items:      map[string]*entity.Item{},
		locations:  map[string]*entity.Location{},
		quantities: map[string]*entity.LocationQuantity{},
		lots:       map[string]*entity.ItemLot{},
		bomLines:   map[string]*entity.BOMLine{},
		workOrders: map[string]*entity.WorkOrder{},
	}
}

func qtyKey(itemID, locationID string) string {
	return itemID + "|" + locationID
}

// clone copia el estado completo. Las entidades se copian por valor, de modo
// que mutaciones dentro de la transacción no tocan el estado confirmado.
func (d *data) clone() *data {
	c := &data{
		items:      make(map[string]*entity.Item, len(d.items)),
		locations:  make(map[string]*entity.Location, len(d.locations)),
		quantities: make(map[string]*entity.LocationQuantity, len(d.quantities)),
		lots:       make(map[string]*entity.ItemLot, len(d.lots)),
		movements:  make([]*entity.StockMovement, len(d.movements)),
		bomLines:   make(map[string]*entity.BOMLine, len(d.bomLines)),
		workOrders: make(map[string]*entity.WorkOrder, len(d.workOrders)),
	}
	for k, v := range d.items {
		cp := *v
		c.items[k] = &cp
	}
	for k, v := range d.locations {
		cp := *v
		c.locations[k] = &cp
	}
	for k, v := range d.quantities {
		cp := *v
		c.quantities[k] = &cp
	}
	for k, v := range d.lots {
		cp := *v
		c.lots[k] = &cp
	}
	for i, v := range d.movements {
		cp := *v
		c.movements[i] = &cp
	}
	for k, v := range d.bomLines {
		cp := *v
		c.bomLines[k] = &cp
	}
	for k, v := range d.workOrders {
		cp := *v
		c.workOrders[k] = &cp
	}
	return c
}

// view devuelve el estado a usar y la función de liberación: los repos atados
// al Store toman el mutex; los atados a una transacción (s == nil) operan
// sobre el clon sin bloquear, porque el runner ya retiene el mutex.
func view(s *Store, d *data) (*data, func()) {
	if s == nil {
		return d, func() {}
	}
	s.mu.Lock()
	return s.d, s.mu.Unlock
}
