package engine

import (
	"time"
)

// spawnInterval shortens with every active employee down to MinSpawnInterval
func (w *World) spawnInterval() time.Duration {
	n := w.state.NumEmployees
	if n < 1 {
		n = 1
	}
	d := w.opts.SpawnInterval / time.Duration(n)
	if d < w.opts.MinSpawnInterval {
		d = w.opts.MinSpawnInterval
	}
	return d
}

// updateSpawn retries every tick once the timer expired until a spawn succeeds
func (w *World) updateSpawn(dt time.Duration) {
	if !countdown(&w.spawnTimer, dt) {
		return
	}
	if _, ok := w.spawnCustomer(); ok {
		w.spawnTimer = w.spawnInterval()
	}
}

// SpawnCustomer activates the next pooled customer now, ignoring the spawn timer
func (w *World) SpawnCustomer() (Handle, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spawnCustomer()
}

// spawnCustomer routes straight to the bar only when the queue is empty and a seat is free
// Otherwise the queue must be a clean prefix with a free slot behind it
func (w *World) spawnCustomer() (Handle, bool) {
	h := w.FindNextCustomer()
	if h == NoHandle {
		return NoHandle, false
	}

	if w.IsQueueEmpty() {
		if bar := w.FindFreeBar(); bar != NoHandle {
			w.activateCustomer(int(h), true, bar)
			w.lastCustomer = (int(h) + 1) % len(w.customers)
			return h, true
		}
	}

	if !w.IsQueueReady() {
		return NoHandle, false
	}
	slot := w.FindFreeQueue()
	if slot == NoHandle {
		return NoHandle, false
	}
	w.activateCustomer(int(h), false, slot)
	w.lastCustomer = (int(h) + 1) % len(w.customers)
	return h, true
}
