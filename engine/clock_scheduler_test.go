package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/parameter"
	"github.com/lixenwraith/bunny-coffee/persist"
	"github.com/lixenwraith/bunny-coffee/status"
)

// countingHandler counts dispatched events of one type
type countingHandler struct {
	typ   event.EventType
	count atomic.Int32
}

func (h *countingHandler) HandleEvent(event.GameEvent)    { h.count.Add(1) }
func (h *countingHandler) EventTypes() []event.EventType { return []event.EventType{h.typ} }

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestClockSchedulerTicksWorld(t *testing.T) {
	opts := testOptions(2, 1, 1)
	opts.ProcessEvery = 5 * time.Millisecond
	opts.SpawnInterval = 10 * time.Millisecond
	f := newFixture(t, opts, noStaff())

	router := event.NewRouter(f.events)
	spawned := &countingHandler{typ: event.EventCustomerSpawned}
	router.Register(spawned)

	cs := NewClockScheduler(f.world, router, nil, f.status, 5*time.Millisecond)
	cs.Start()
	defer cs.Stop()

	waitFor(t, 2*time.Second, func() bool { return f.world.TickCount() >= 5 })
	waitFor(t, 2*time.Second, func() bool { return spawned.count.Load() > 0 })

	select {
	case <-cs.Updates():
	case <-time.After(time.Second):
		t.Error("Expected an update signal")
	}
	if cs.TickCount() == 0 {
		t.Error("Expected scheduler cycles")
	}
}

func TestClockSchedulerPause(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	clock := NewPausableClock(mock)
	f := newFixture(t, testOptions(2, 1, 1), noStaff())
	reg := status.NewRegistry()

	cs := NewClockScheduler(f.world, nil, clock, reg, 10*time.Millisecond)
	if !cs.TogglePause() || !cs.IsPaused() {
		t.Fatal("Expected paused after toggle")
	}
	if !reg.Bools.Get(status.EnginePaused).Load() {
		t.Error("Expected engine.paused metric set")
	}

	cs.Start()
	defer cs.Stop()

	mock.Advance(time.Second)
	time.Sleep(50 * time.Millisecond)
	if got := f.world.TickCount(); got != 0 {
		t.Errorf("Expected no ticks while paused, got %d", got)
	}

	if cs.TogglePause() {
		t.Fatal("Expected running after second toggle")
	}
	mock.Advance(time.Second)
	waitFor(t, 2*time.Second, func() bool { return f.world.TickCount() >= 1 })
}

func TestClockSchedulerReset(t *testing.T) {
	f := newFixture(t, testOptions(2, 1, 1), persist.GameState{Money: 90, NumEmployees: 2, ApplianceLevels: []int{0, 0}})
	router := event.NewRouter(f.events)
	resets := &countingHandler{typ: event.EventGameReset}
	router.Register(resets)

	cs := NewClockScheduler(f.world, router, nil, f.status, 5*time.Millisecond)
	cs.Start()
	defer cs.Stop()

	cs.RequestReset()
	waitFor(t, 2*time.Second, func() bool { return resets.count.Load() == 1 })

	if !f.world.State().Equal(persist.Default()) {
		t.Errorf("Expected default state, got %+v", f.world.State())
	}
}

func TestClockSchedulerStopIsIdempotent(t *testing.T) {
	f := newFixture(t, testOptions(2, 1, 1), noStaff())
	cs := NewClockScheduler(f.world, nil, nil, nil, 0)
	cs.Start()
	cs.Stop()
	cs.Stop()
}

func TestClockSchedulerPublishesCycleMetrics(t *testing.T) {
	f := newFixture(t, testOptions(2, 1, 1), noStaff())
	reg := status.NewRegistry()

	cs := NewClockScheduler(f.world, nil, nil, reg, 2*time.Millisecond)
	cs.Start()
	defer cs.Stop()

	cycles := reg.Ints.Get(status.EngineCycles)
	waitFor(t, 5*time.Second, func() bool { return cycles.Load() >= parameter.MetricsEveryTicks })

	if got := cycles.Load(); got%parameter.MetricsEveryTicks != 0 {
		t.Errorf("Expected cycles published on multiples of %d, got %d", parameter.MetricsEveryTicks, got)
	}
	if got := reg.Ints.Get(status.EnginePauseMillis).Load(); got != 0 {
		t.Errorf("Expected no pause time, got %dms", got)
	}
}
