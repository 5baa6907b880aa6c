package status

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMetricMapCachesPointer(t *testing.T) {
	reg := NewRegistry()

	a := reg.Ints.Get(OrdersCompleted)
	b := reg.Ints.Get(OrdersCompleted)
	if a != b {
		t.Error("Expected the same pointer for repeated Get")
	}

	a.Add(3)
	if b.Load() != 3 {
		t.Errorf("Expected 3, got %d", b.Load())
	}
	if !reg.Ints.Has(OrdersCompleted) || reg.Ints.Has(BrokerDropped) {
		t.Error("Has reported wrong membership")
	}
}

func TestMetricMapConcurrentGet(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Ints.Get(EngineTicks).Add(1)
		}()
	}
	wg.Wait()

	if got := reg.Ints.Get(EngineTicks).Load(); got != 16 {
		t.Errorf("Expected 16, got %d", got)
	}
	if reg.Ints.Count() != 1 {
		t.Errorf("Expected 1 registered metric, got %d", reg.Ints.Count())
	}
}

func TestRegistrySnapshot(t *testing.T) {
	reg := NewRegistry()
	reg.Ints.Get(EconomyMoney).Store(42)
	reg.Bools.Get(EnginePaused).Store(true)
	reg.Floats.Get(EngineTickMillis).Set(0.5)
	reg.Strings.Get(StoreBackend).Store("redis")

	snap := reg.Snapshot()
	if snap[EconomyMoney] != int64(42) {
		t.Errorf("Expected money 42, got %v", snap[EconomyMoney])
	}
	if snap[EnginePaused] != true {
		t.Errorf("Expected paused true, got %v", snap[EnginePaused])
	}
	if snap[EngineTickMillis] != 0.5 {
		t.Errorf("Expected tick 0.5, got %v", snap[EngineTickMillis])
	}
	if snap[StoreBackend] != "redis" {
		t.Errorf("Expected backend redis, got %v", snap[StoreBackend])
	}
	if reg.TotalCount() != 4 {
		t.Errorf("Expected 4 metrics, got %d", reg.TotalCount())
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("Zero value should load empty string")
	}
	s.Store(strings.Repeat("x", MaxStringLen+5))
	if len(s.Load()) != MaxStringLen {
		t.Errorf("Expected length %d, got %d", MaxStringLen, len(s.Load()))
	}
}

func TestAtomicFloatAdd(t *testing.T) {
	var f AtomicFloat
	f.Set(1.5)
	if got := f.Add(2.25); got != 3.75 {
		t.Errorf("Expected 3.75, got %v", got)
	}
}

func TestMetricMapKeysSorted(t *testing.T) {
	reg := NewRegistry()
	for _, k := range []string{OrdersCompleted, CustomersServed, EconomyMoney, CustomersSpawned} {
		reg.Ints.Get(k)
	}
	reg.Ints.Get(EconomyMoney)

	want := []string{CustomersServed, CustomersSpawned, EconomyMoney, OrdersCompleted}
	got := reg.Ints.Keys()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}

	var visited []string
	reg.Ints.Range(func(k string, _ *atomic.Int64) { visited = append(visited, k) })
	if strings.Join(visited, ",") != strings.Join(want, ",") {
		t.Errorf("Expected Range order %v, got %v", want, visited)
	}
}
