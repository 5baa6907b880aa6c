package engine

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies reservation bookkeeping and queue order
func (w *World) CheckInvariants() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.checkInvariants()
}

func (w *World) checkInvariants() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	claims := map[SlotKind]int{}
	claim := func(pool *SlotPool, h Handle, owner Handle, who string) {
		if !h.Valid() {
			return
		}
		claims[pool.Kind()]++
		if !pool.IsBusy(h) {
			fail("%s holds free %s slot %d", who, pool.Kind(), h)
		} else if pool.Owner(h) != owner {
			fail("%s holds %s slot %d owned by %d", who, pool.Kind(), h, pool.Owner(h))
		}
	}

	for i := range w.customers {
		c := &w.customers[i]
		who := fmt.Sprintf("customer %d", i)
		if !c.Active {
			if c.Queue.Valid() || c.Bar.Valid() || c.Table.Valid() {
				fail("%s is inactive but holds a slot", who)
			}
			continue
		}
		held := 0
		for _, h := range []Handle{c.Queue, c.Bar, c.Table} {
			if h.Valid() {
				held++
			}
		}
		if held > 1 {
			fail("%s holds %d of queue, bar and table", who, held)
		}
		claim(w.queue, c.Queue, Handle(i), who)
		claim(w.bars, c.Bar, Handle(i), who)
		claim(w.tables, c.Table, Handle(i), who)
		if c.Remaining < 0 {
			fail("%s has negative timer %v", who, c.Remaining)
		}
	}

	applianceClaims := make([]int, len(w.appliances))
	for i := range w.employees {
		e := &w.employees[i]
		if !e.Active {
			continue
		}
		who := fmt.Sprintf("employee %d", i)
		claim(w.idle, e.Idle, Handle(i), who)
		if e.Appliance.Valid() {
			applianceClaims[e.Appliance]++
		}
		if e.Remaining < 0 {
			fail("%s has negative timer %v", who, e.Remaining)
		}
	}

	for _, pool := range []*SlotPool{w.queue, w.bars, w.tables, w.idle} {
		if busy := pool.BusyCount(); busy != claims[pool.Kind()] {
			fail("%s pool has %d busy slots but %d claims", pool.Kind(), busy, claims[pool.Kind()])
		}
	}
	for i := range w.appliances {
		a := &w.appliances[i]
		switch {
		case applianceClaims[i] > 1:
			fail("station %d claimed by %d employees", i, applianceClaims[i])
		case a.Busy != (applianceClaims[i] == 1):
			fail("station %d busy=%v with %d claims", i, a.Busy, applianceClaims[i])
		}
		if a.Remaining < 0 {
			fail("station %d has negative timer %v", i, a.Remaining)
		}
	}

	if !w.IsQueueReady() {
		fail("queue is not a busy prefix: %v", w.queue.Busy())
	}
	if w.state.Money < 0 {
		fail("money is negative: %d", w.state.Money)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvariant, errors.Join(errs...))
}
