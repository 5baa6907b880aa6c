package engine

import (
	"time"

	"github.com/lixenwraith/bunny-coffee/navigation"
)

// Advance accumulates dt and runs one tick with the whole accumulated delta once it reaches ProcessEvery
// Returns true when a tick ran
func (w *World) Advance(dt time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.accumulated += dt
	if w.accumulated < w.opts.ProcessEvery {
		return false
	}
	delta := w.accumulated
	w.accumulated = 0
	w.step(delta)
	return true
}

// Tick runs one tick of dt regardless of the accumulator
func (w *World) Tick(dt time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step(dt)
}

// step is one pass: movement, appliances, employees, customers, spawning
func (w *World) step(dt time.Duration) {
	w.tick++
	w.statTicks.Add(1)

	if s, ok := w.mover.(navigation.Stepper); ok {
		s.Step(dt)
	}

	for i := range w.appliances {
		if w.appliances[i].Active {
			w.applianceFSM.Update(w, i, w.appliances[i].Status, dt)
		}
	}
	for i := range w.employees {
		if w.employees[i].Active {
			w.employeeFSM.Update(w, i, w.employees[i].Status, dt)
		}
	}
	w.updateCustomers(dt)
	w.updateSpawn(dt)
}

// updateCustomers runs queue holders front to back, then everyone else by index
func (w *World) updateCustomers(dt time.Duration) {
	for q := 0; q < w.queue.Len(); q++ {
		owner := w.queue.Owner(Handle(q))
		if owner == NoHandle || w.visited[owner] {
			continue
		}
		w.visited[owner] = true
		w.customerFSM.Update(w, int(owner), w.customers[owner].Status, dt)
	}
	for i := range w.customers {
		if w.visited[i] {
			w.visited[i] = false
			continue
		}
		if w.customers[i].Active {
			w.customerFSM.Update(w, i, w.customers[i].Status, dt)
		}
	}
}
