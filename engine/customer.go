package engine

import (
	"fmt"
	"time"

	"github.com/lixenwraith/bunny-coffee/engine/fsm"
	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/navigation"
)

// CustomerStatus is the customer journey from the door back to the pool
type CustomerStatus int

const (
	CustomerIdle CustomerStatus = iota
	CustomerMovingToQueue
	CustomerInQueue
	CustomerMovingToBar
	CustomerThinkingOrder
	CustomerWaitingEmployee
	CustomerExplainingOrder
	CustomerWaitingOrder
	CustomerReceivingOrder
	CustomerWaitingTable
	CustomerMovingToTable
	CustomerConsumingOrder
	CustomerReviewingOrder
	CustomerLeaving
)

var customerStatusNames = [...]string{
	"Idle", "MovingToQueue", "InQueue", "MovingToBar", "ThinkingOrder", "WaitingEmployee",
	"ExplainingOrder", "WaitingOrder", "ReceivingOrder", "WaitingTable", "MovingToTable",
	"ConsumingOrder", "ReviewingOrder", "Leaving",
}

func (s CustomerStatus) String() string {
	if s < 0 || int(s) >= len(customerStatusNames) {
		return fmt.Sprintf("CustomerStatus(%d)", int(s))
	}
	return customerStatusNames[s]
}

// Walking reports whether the status moves the customer across the floor
func (s CustomerStatus) Walking() bool {
	switch s {
	case CustomerMovingToQueue, CustomerMovingToBar, CustomerMovingToTable, CustomerLeaving:
		return true
	}
	return false
}

// Customer is a pooled actor; TypeID is fixed per pool slot
type Customer struct {
	TypeID    string
	Status    CustomerStatus
	Active    bool
	Attended  bool
	Remaining time.Duration
	Queue     Handle
	Bar       Handle
	Table     Handle
	Product   string

	home navigation.Position
}

// CanBeAttended reports a seated customer no employee has claimed yet
func (c *Customer) CanBeAttended() bool {
	return c.Status == CustomerWaitingEmployee && !c.Attended
}

// Attend marks the customer as claimed; repeated calls have no further effect
func (c *Customer) Attend() {
	if c.CanBeAttended() {
		c.Attended = true
	}
}

func (c *Customer) reset() {
	c.Attended = false
	c.Remaining = 0
	c.Queue = NoHandle
	c.Bar = NoHandle
	c.Table = NoHandle
	c.Product = ""
}

func newCustomerMachine() *fsm.Machine[CustomerStatus, *World] {
	m := fsm.NewMachine[CustomerStatus, *World]("customer")
	m.Define(CustomerIdle, "Idle", nil, CustomerMovingToQueue, CustomerMovingToBar).
		Define(CustomerMovingToQueue, "MovingToQueue", (*World).updateCustomerMovingToQueue, CustomerInQueue).
		Define(CustomerInQueue, "InQueue", (*World).updateCustomerInQueue, CustomerMovingToQueue, CustomerMovingToBar).
		Define(CustomerMovingToBar, "MovingToBar", (*World).updateCustomerMovingToBar, CustomerThinkingOrder).
		Define(CustomerThinkingOrder, "ThinkingOrder", timed(CustomerWaitingEmployee), CustomerWaitingEmployee).
		Define(CustomerWaitingEmployee, "WaitingEmployee", nil, CustomerExplainingOrder).
		Define(CustomerExplainingOrder, "ExplainingOrder", timed(CustomerWaitingOrder), CustomerWaitingOrder, CustomerReceivingOrder).
		Define(CustomerWaitingOrder, "WaitingOrder", nil, CustomerReceivingOrder).
		Define(CustomerReceivingOrder, "ReceivingOrder", timed(CustomerWaitingTable), CustomerWaitingTable).
		Define(CustomerWaitingTable, "WaitingTable", (*World).updateCustomerWaitingTable, CustomerMovingToTable).
		Define(CustomerMovingToTable, "MovingToTable", (*World).updateCustomerMovingToTable, CustomerConsumingOrder).
		Define(CustomerConsumingOrder, "ConsumingOrder", timed(CustomerReviewingOrder), CustomerReviewingOrder).
		Define(CustomerReviewingOrder, "ReviewingOrder", timed(CustomerLeaving), CustomerLeaving).
		Define(CustomerLeaving, "Leaving", (*World).updateCustomerLeaving, CustomerIdle)

	m.OnEnter(CustomerMovingToQueue, func(w *World, i int) {
		w.moveCustomer(i, w.queue.At(w.customers[i].Queue).CustomerPos)
	})
	m.OnEnter(CustomerMovingToBar, func(w *World, i int) {
		w.moveCustomer(i, w.bars.At(w.customers[i].Bar).CustomerPos)
	})
	m.OnEnter(CustomerThinkingOrder, func(w *World, i int) {
		w.customers[i].Remaining = w.opts.Timers.Think
		w.bubble(event.GroupCustomer, i, event.BubbleThinking, "")
	})
	m.OnEnter(CustomerExplainingOrder, func(w *World, i int) {
		w.customers[i].Remaining = w.opts.Timers.Explain
		w.bubble(event.GroupCustomer, i, event.BubbleProduct, w.customers[i].Product)
	})
	m.OnEnter(CustomerWaitingOrder, func(w *World, i int) {
		w.bubble(event.GroupCustomer, i, event.BubbleHide, "")
	})
	m.OnEnter(CustomerReceivingOrder, func(w *World, i int) {
		w.customers[i].Remaining = w.opts.Timers.Receive
		w.bubble(event.GroupCustomer, i, event.BubbleProduct, w.customers[i].Product)
	})
	m.OnEnter(CustomerMovingToTable, func(w *World, i int) {
		c := &w.customers[i]
		w.bars.Free(c.Bar)
		c.Bar = NoHandle
		w.moveCustomer(i, w.tables.At(c.Table).CustomerPos)
	})
	m.OnEnter(CustomerConsumingOrder, func(w *World, i int) {
		w.customers[i].Remaining = w.opts.Timers.Consume
		w.bubble(event.GroupCustomer, i, event.BubbleHide, "")
	})
	m.OnEnter(CustomerReviewingOrder, func(w *World, i int) {
		w.customers[i].Remaining = w.opts.Timers.Review
		w.bubble(event.GroupCustomer, i, event.BubbleHappy, "")
	})
	m.OnEnter(CustomerLeaving, func(w *World, i int) {
		c := &w.customers[i]
		w.tables.Free(c.Table)
		c.Table = NoHandle
		w.moveCustomer(i, c.home)
		w.bubble(event.GroupCustomer, i, event.BubbleHide, "")
	})

	m.OnChange(func(w *World, i int, from, to CustomerStatus) {
		w.emit(event.EventCustomerStatus, &event.StatusPayload{
			Index: i, From: from.String(), To: to.String(), Walking: to.Walking(),
		})
	})
	return m
}

// timed builds an update handler that advances to next when the phase timer expires
func timed(next CustomerStatus) fsm.UpdateFunc[*World] {
	return func(w *World, i int, dt time.Duration) {
		if countdown(&w.customers[i].Remaining, dt) {
			w.setCustomerStatus(i, next)
		}
	}
}

func (w *World) setCustomerStatus(i int, to CustomerStatus) bool {
	if err := w.customerFSM.Transition(w, i, &w.customers[i].Status, to); err != nil {
		w.warn(err)
		return false
	}
	return true
}

func (w *World) moveCustomer(i int, p navigation.Position) {
	w.mover.MoveTo(navigation.Customer(i), p)
}

// Customer returns a copy of customer h
func (w *World) Customer(h Handle) (Customer, bool) {
	if h < 0 || int(h) >= len(w.customers) {
		return Customer{}, false
	}
	return w.customers[h], true
}

// activateCustomer takes pool slot i out of the pool toward a reserved bar or queue slot
func (w *World) activateCustomer(i int, toBar bool, slot Handle) {
	c := &w.customers[i]
	c.reset()
	c.Active = true

	if toBar {
		w.bars.Reserve(slot, Handle(i))
		c.Bar = slot
		w.setCustomerStatus(i, CustomerMovingToBar)
	} else {
		w.queue.Reserve(slot, Handle(i))
		c.Queue = slot
		w.setCustomerStatus(i, CustomerMovingToQueue)
	}

	w.statSpawned.Add(1)
	w.statActive.Add(1)
	w.emit(event.EventCustomerSpawned, &event.CustomerSpawnedPayload{Index: i, TypeID: c.TypeID, ToBar: toBar})
}

// deactivateCustomer returns customer i to the pool
// Holding a slot here is an invariant break; the slot is released and logged
func (w *World) deactivateCustomer(i int) {
	c := &w.customers[i]
	w.releaseCustomerSlots(i, true)
	w.customerFSM.Force(w, i, &c.Status, CustomerIdle)
	c.reset()
	c.Active = false

	w.statServed.Add(1)
	w.statActive.Add(-1)
	w.emit(event.EventCustomerLeft, &event.CustomerLeftPayload{Index: i})
}

func (w *World) releaseCustomerSlots(i int, warn bool) {
	c := &w.customers[i]
	for _, held := range []struct {
		pool *SlotPool
		h    *Handle
	}{{w.queue, &c.Queue}, {w.bars, &c.Bar}, {w.tables, &c.Table}} {
		if !held.h.Valid() {
			continue
		}
		if warn {
			w.warn(fmt.Errorf("customer %d released still holding %s slot %d", i, held.pool.Kind(), *held.h))
		}
		held.pool.Free(*held.h)
		*held.h = NoHandle
	}
}

// advanceInQueue moves customer i's reservation one slot toward the front when that slot is free
func (w *World) advanceInQueue(i int) bool {
	c := &w.customers[i]
	next := w.FindNextQueue(c.Queue)
	if next == NoHandle || w.queue.IsBusy(next) {
		return false
	}
	w.queue.Reserve(next, Handle(i))
	w.queue.Free(c.Queue)
	c.Queue = next
	return true
}

func (w *World) updateCustomerMovingToQueue(i int, _ time.Duration) {
	if w.advanceInQueue(i) {
		w.moveCustomer(i, w.queue.At(w.customers[i].Queue).CustomerPos)
		return
	}
	if w.mover.Arrived(navigation.Customer(i)) {
		w.setCustomerStatus(i, CustomerInQueue)
	}
}

func (w *World) updateCustomerInQueue(i int, _ time.Duration) {
	c := &w.customers[i]
	if w.FindNextQueue(c.Queue) != NoHandle {
		if w.advanceInQueue(i) {
			w.setCustomerStatus(i, CustomerMovingToQueue)
		}
		return
	}

	// Front of the queue: wait for a bar seat
	bar := w.FindFreeBar()
	if bar == NoHandle {
		return
	}
	w.bars.Reserve(bar, Handle(i))
	c.Bar = bar
	w.queue.Free(c.Queue)
	c.Queue = NoHandle
	w.setCustomerStatus(i, CustomerMovingToBar)
}

func (w *World) updateCustomerMovingToBar(i int, _ time.Duration) {
	if w.mover.Arrived(navigation.Customer(i)) {
		w.setCustomerStatus(i, CustomerThinkingOrder)
	}
}

func (w *World) updateCustomerWaitingTable(i int, _ time.Duration) {
	t := w.FindFreeTable()
	if t == NoHandle {
		return
	}
	w.tables.Reserve(t, Handle(i))
	w.customers[i].Table = t
	w.setCustomerStatus(i, CustomerMovingToTable)
}

func (w *World) updateCustomerMovingToTable(i int, _ time.Duration) {
	if w.mover.Arrived(navigation.Customer(i)) {
		w.setCustomerStatus(i, CustomerConsumingOrder)
	}
}

func (w *World) updateCustomerLeaving(i int, _ time.Duration) {
	if w.mover.Arrived(navigation.Customer(i)) {
		w.deactivateCustomer(i)
	}
}
