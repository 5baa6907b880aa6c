package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/status"
)

func TestSpawnRoutesToBarWhenQueueEmpty(t *testing.T) {
	f := newFixture(t, testOptions(3, 1, 1), noStaff())

	h, ok := f.world.SpawnCustomer()
	if !ok {
		t.Fatal("Expected spawn to succeed")
	}

	c := f.customer(t, h)
	if c.Status != CustomerMovingToBar {
		t.Errorf("Expected MovingToBar, got %s", c.Status)
	}
	if c.Queue != NoHandle {
		t.Errorf("Expected no queue slot, got %d", c.Queue)
	}
	if c.Bar != 0 {
		t.Errorf("Expected bar 0, got %d", c.Bar)
	}

	f.world.RunSafe(func(w *World) {
		if !w.IsQueueEmpty() {
			t.Error("Expected queue to stay empty")
		}
	})

	f.world.Tick(time.Second)
	if c = f.customer(t, h); c.Status != CustomerThinkingOrder {
		t.Errorf("Expected ThinkingOrder after arrival, got %s", c.Status)
	}
}

func TestSpawnBlocksWhenQueueAndBarFull(t *testing.T) {
	f := newFixture(t, testOptions(1, 1, 1), persist1Employee())

	// Occupy the only bar seat
	atBar, ok := f.world.SpawnCustomer()
	if !ok {
		t.Fatal("Expected first spawn to take the bar")
	}

	first, ok := f.world.SpawnCustomer()
	if !ok {
		t.Fatal("Expected second spawn to take the queue slot")
	}
	f.world.Tick(100 * time.Millisecond)
	if c := f.customer(t, first); c.Status != CustomerInQueue || c.Queue != 0 {
		t.Fatalf("Expected InQueue at slot 0, got %s at %d", c.Status, c.Queue)
	}

	if h, ok := f.world.SpawnCustomer(); ok {
		t.Fatalf("Expected spawn to fail with a full queue, got customer %d", h)
	}

	// Serve the bar customer until the seat frees and the queued customer takes it
	for i := 0; i < 60; i++ {
		f.world.Tick(time.Second)
		if err := f.world.CheckInvariants(); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
		if c := f.customer(t, first); c.Bar.Valid() {
			break
		}
	}

	c := f.customer(t, first)
	if !c.Bar.Valid() || c.Queue.Valid() {
		t.Fatalf("Expected queued customer at the bar, got bar %d queue %d (%s)", c.Bar, c.Queue, c.Status)
	}
	if b := f.customer(t, atBar); b.Bar.Valid() {
		t.Errorf("Expected first customer to have left the bar, got bar %d", b.Bar)
	}

	if _, ok := f.world.SpawnCustomer(); !ok {
		t.Error("Expected spawn to succeed once the queue slot freed")
	}
}

func TestAttendIsIdempotent(t *testing.T) {
	c := Customer{Status: CustomerWaitingEmployee}
	if !c.CanBeAttended() {
		t.Fatal("Expected waiting customer to be attendable")
	}

	c.Attend()
	once := c
	c.Attend()

	if c != once {
		t.Errorf("Expected second Attend to change nothing, got %+v vs %+v", c, once)
	}
	if !c.Attended || c.CanBeAttended() {
		t.Errorf("Expected attended and not attendable, got attended=%v can=%v", c.Attended, c.CanBeAttended())
	}

	idle := Customer{Status: CustomerThinkingOrder}
	idle.Attend()
	if idle.Attended {
		t.Error("Expected Attend outside WaitingEmployee to be ignored")
	}
}

func TestAttendedClearedOnReturn(t *testing.T) {
	f := newFixture(t, testOptions(2, 1, 1), noStaff())
	h, _ := f.world.SpawnCustomer()

	f.world.RunSafe(func(w *World) {
		c := &w.customers[h]
		c.Status = CustomerWaitingEmployee
		c.Attend()
		w.bars.Free(c.Bar)
		c.Bar = NoHandle
		w.deactivateCustomer(int(h))
	})

	c := f.customer(t, h)
	if c.Active || c.Attended || c.Status != CustomerIdle {
		t.Errorf("Expected pooled customer reset, got %+v", c)
	}
}

func TestRoundRobinSpawning(t *testing.T) {
	opts := testOptions(6, 3, 1)
	opts.MaxCustomers = 3
	f := newFixture(t, opts, noStaff())

	for want := Handle(0); want < 3; want++ {
		h, ok := f.world.SpawnCustomer()
		if !ok || h != want {
			t.Fatalf("Expected customer %d, got %d (ok=%v)", want, h, ok)
		}
	}
	if _, ok := f.world.SpawnCustomer(); ok {
		t.Fatal("Expected exhausted pool")
	}

	f.world.RunSafe(func(w *World) { w.deactivateCustomer(1) })
	if h, _ := f.world.SpawnCustomer(); h != 1 {
		t.Errorf("Expected reuse of slot 1, got %d", h)
	}

	// Cursor sits after 1; slot 2 comes before slot 0
	f.world.RunSafe(func(w *World) {
		w.deactivateCustomer(0)
		w.deactivateCustomer(2)
	})
	if h, _ := f.world.SpawnCustomer(); h != 2 {
		t.Errorf("Expected slot 2 next, got %d", h)
	}
	if h, _ := f.world.SpawnCustomer(); h != 0 {
		t.Errorf("Expected slot 0 next, got %d", h)
	}

	if err := f.world.CheckInvariants(); err != nil {
		t.Errorf("Invariants: %v", err)
	}
	if got := f.status.Ints.Get(status.CustomersServed).Load(); got != 3 {
		t.Errorf("Expected 3 served, got %d", got)
	}
}

func TestQueueAdvancesFrontToBack(t *testing.T) {
	f := newFixture(t, testOptions(4, 1, 1), noStaff())

	var spawned []Handle
	for i := 0; i < 4; i++ {
		h, ok := f.world.SpawnCustomer()
		if !ok {
			t.Fatalf("spawn %d failed", i)
		}
		spawned = append(spawned, h)
	}
	f.world.Tick(100 * time.Millisecond)

	// spawned[0] is at the bar, the rest fill queue slots 0..2
	for i, h := range spawned[1:] {
		if c := f.customer(t, h); c.Queue != Handle(i) || c.Status != CustomerInQueue {
			t.Fatalf("Customer %d: expected InQueue at %d, got %s at %d", h, i, c.Status, c.Queue)
		}
	}

	// Free the bar: the front customer jumps to it and everyone behind steps up in the same tick
	f.world.RunSafe(func(w *World) {
		bar := w.customers[spawned[0]].Bar
		w.bars.Free(bar)
		w.customers[spawned[0]].Bar = NoHandle
		w.deactivateCustomer(int(spawned[0]))
	})
	f.world.Tick(100 * time.Millisecond)

	if c := f.customer(t, spawned[1]); c.Status != CustomerMovingToBar || c.Queue.Valid() {
		t.Errorf("Expected front customer MovingToBar without queue slot, got %s at %d", c.Status, c.Queue)
	}
	for i, h := range spawned[2:] {
		if c := f.customer(t, h); c.Queue != Handle(i) {
			t.Errorf("Customer %d: expected queue slot %d, got %d", h, i, c.Queue)
		}
	}
	f.world.RunSafe(func(w *World) {
		if !w.IsQueueReady() {
			t.Errorf("Expected busy prefix, got %v", w.queue.Busy())
		}
	})
	if err := f.world.CheckInvariants(); err != nil {
		t.Errorf("Invariants: %v", err)
	}
}

func TestCustomerStatusEvents(t *testing.T) {
	f := newFixture(t, testOptions(2, 1, 1), noStaff())
	f.events.Consume()

	h, _ := f.world.SpawnCustomer()
	f.world.Tick(time.Second)
	f.world.Tick(time.Second)

	var to []string
	spawned := 0
	for _, ev := range f.events.Consume() {
		switch ev.Type {
		case event.EventCustomerSpawned:
			spawned++
		case event.EventCustomerStatus:
			p := ev.Payload.(*event.StatusPayload)
			if p.Index == int(h) {
				to = append(to, p.To)
			}
		}
	}

	want := []string{"MovingToBar", "ThinkingOrder", "WaitingEmployee"}
	if len(to) != len(want) {
		t.Fatalf("Expected transitions %v, got %v", want, to)
	}
	for i := range want {
		if to[i] != want[i] {
			t.Errorf("Transition %d: expected %s, got %s", i, want[i], to[i])
		}
	}
	if spawned != 1 {
		t.Errorf("Expected one spawn event, got %d", spawned)
	}
}

func TestInvalidCustomerTransitionIsIgnored(t *testing.T) {
	f := newFixture(t, testOptions(2, 1, 1), noStaff())
	f.world.RunSafe(func(w *World) {
		if w.setCustomerStatus(0, CustomerLeaving) {
			t.Error("Expected Idle -> Leaving to be rejected")
		}
		if w.customers[0].Status != CustomerIdle {
			t.Errorf("Expected status unchanged, got %s", w.customers[0].Status)
		}
	})
}

func TestStatusNames(t *testing.T) {
	if CustomerReviewingOrder.String() != "ReviewingOrder" {
		t.Errorf("Expected ReviewingOrder, got %s", CustomerReviewingOrder)
	}
	if CustomerStatus(42).String() != "CustomerStatus(42)" {
		t.Errorf("Expected fallback name, got %s", CustomerStatus(42))
	}
	if !CustomerLeaving.Walking() || CustomerInQueue.Walking() {
		t.Error("Unexpected walking flags")
	}
	if EmployeeMovingToIdle.String() != "MovingToIdle" || !EmployeeMovingToIdle.Walking() {
		t.Error("Unexpected employee status name or walking flag")
	}
}
