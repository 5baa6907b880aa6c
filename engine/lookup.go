package engine

import (
	"github.com/lixenwraith/bunny-coffee/catalog"
)

// Resource lookups used by the actor state machines
// None of them mutate; a miss is NoHandle and the caller retries next tick
// Caller holds the world lock

// FindNextCustomer scans the pool circularly from the spawn cursor for an inactive customer
func (w *World) FindNextCustomer() Handle {
	n := len(w.customers)
	for k := 0; k < n; k++ {
		i := (w.lastCustomer + k) % n
		if !w.customers[i].Active {
			return Handle(i)
		}
	}
	return NoHandle
}

// FindCustomerWaiting returns the first customer an employee may attend
func (w *World) FindCustomerWaiting() Handle {
	for i := range w.customers {
		c := &w.customers[i]
		if c.Active && c.CanBeAttended() {
			return Handle(i)
		}
	}
	return NoHandle
}

// FindIdlePosition returns a free employee idle spot
func (w *World) FindIdlePosition() Handle {
	return w.idle.FindFree()
}

// FindFreeBar returns a free bar seat
func (w *World) FindFreeBar() Handle {
	return w.bars.FindFree()
}

// FindFreeQueue returns the free queue slot closest to the front
func (w *World) FindFreeQueue() Handle {
	return w.queue.FindFree()
}

// FindNextQueue returns the slot one step closer to the front, NoHandle at the front
func (w *World) FindNextQueue(h Handle) Handle {
	if h <= 0 || int(h) >= w.queue.Len() {
		return NoHandle
	}
	return h - 1
}

// FindFreeTable returns a free table
func (w *World) FindFreeTable() Handle {
	return w.tables.FindFree()
}

// FindFreeAppliance returns the first station that can start productID now
func (w *World) FindFreeAppliance(productID string) Handle {
	for i := range w.appliances {
		if w.CanPrepare(Handle(i), productID) {
			return Handle(i)
		}
	}
	return NoHandle
}

// IsQueueEmpty reports no queue slot is reserved
func (w *World) IsQueueEmpty() bool {
	return w.queue.BusyCount() == 0
}

// IsQueueReady reports that busy queue slots form a prefix from the front
func (w *World) IsQueueReady() bool {
	gap := false
	for i := 0; i < w.queue.Len(); i++ {
		busy := w.queue.IsBusy(Handle(i))
		if busy && gap {
			return false
		}
		if !busy {
			gap = true
		}
	}
	return true
}

// AvailableProducts lists every product on the current menu of an active station
// Order follows station index then menu order, without duplicates
func (w *World) AvailableProducts() []catalog.Product {
	seen := make(map[string]bool)
	var out []catalog.Product
	for i := range w.appliances {
		a := &w.appliances[i]
		if !a.Active {
			continue
		}
		lvl, ok := w.applianceType(a).Level(a.Level)
		if !ok {
			continue
		}
		for _, lp := range lvl.Products {
			if seen[lp.ProductID] {
				continue
			}
			seen[lp.ProductID] = true
			if p, ok := w.cat.ProductByID(lp.ProductID); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// RandomProduct picks uniformly from AvailableProducts
func (w *World) RandomProduct() (catalog.Product, bool) {
	products := w.AvailableProducts()
	if len(products) == 0 {
		return catalog.Product{}, false
	}
	return products[w.rng.IntN(len(products))], true
}
