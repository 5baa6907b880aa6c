// Package status is a lock-free metrics registry
// Producers cache metric pointers at construction; readers take snapshots
package status

import "sync/atomic"

// Metric keys written by the simulation and its front ends
const (
	EngineTicks       = "engine.ticks"
	EngineTickMillis  = "engine.tick_ms"
	EnginePaused      = "engine.paused"
	EngineCycles      = "engine.cycles"
	EnginePauseMillis = "engine.pause_ms"
	CustomersSpawned  = "customers.spawned"
	CustomersServed   = "customers.served"
	CustomersActive   = "customers.active"
	OrdersCompleted   = "orders.completed"
	EconomyMoney      = "economy.money"
	EconomyRejected   = "economy.rejected"
	BrokerPublished   = "broker.published"
	BrokerDropped     = "broker.dropped"
	StoreBackend      = "store.backend"
	StoreErrors       = "store.errors"
)

// Registry is the central metrics facade
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every metric into a plain map keyed by metric name
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = v.Load() })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *AtomicFloat) { out[k] = v.Get() })
	r.Strings.Range(func(k string, v *AtomicString) { out[k] = v.Load() })
	return out
}
