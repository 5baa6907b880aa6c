package engine

import (
	"fmt"
	"time"

	"github.com/lixenwraith/bunny-coffee/engine/fsm"
	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/navigation"
)

// EmployeeStatus is the service cycle of a hired employee
type EmployeeStatus int

const (
	EmployeeIdle EmployeeStatus = iota
	EmployeeMovingToCustomer
	EmployeeAskingCustomer
	EmployeeWaitingForAppliance
	EmployeeMovingToAppliance
	EmployeePreparing
	EmployeeMovingToCustomerToDeliver
	EmployeeDelivering
	EmployeeWaitingIdlePosition
	EmployeeMovingToIdle
)

var employeeStatusNames = [...]string{
	"Idle", "MovingToCustomer", "AskingCustomer", "WaitingForAppliance", "MovingToAppliance",
	"Preparing", "MovingToCustomerToDeliver", "Delivering", "WaitingIdlePosition", "MovingToIdle",
}

func (s EmployeeStatus) String() string {
	if s < 0 || int(s) >= len(employeeStatusNames) {
		return fmt.Sprintf("EmployeeStatus(%d)", int(s))
	}
	return employeeStatusNames[s]
}

// Walking reports whether the status moves the employee across the floor
func (s EmployeeStatus) Walking() bool {
	switch s {
	case EmployeeMovingToCustomer, EmployeeMovingToAppliance, EmployeeMovingToCustomerToDeliver, EmployeeMovingToIdle:
		return true
	}
	return false
}

// Employee is a pooled actor activated by hiring
type Employee struct {
	Status    EmployeeStatus
	Active    bool
	Customer  Handle
	Appliance Handle
	Idle      Handle
	Product   string
	Remaining time.Duration
}

func (e *Employee) reset() {
	e.Customer = NoHandle
	e.Appliance = NoHandle
	e.Idle = NoHandle
	e.Product = ""
	e.Remaining = 0
}

func newEmployeeMachine() *fsm.Machine[EmployeeStatus, *World] {
	m := fsm.NewMachine[EmployeeStatus, *World]("employee")
	m.Define(EmployeeIdle, "Idle", (*World).updateEmployeeIdle, EmployeeMovingToCustomer, EmployeeWaitingIdlePosition).
		Define(EmployeeMovingToCustomer, "MovingToCustomer", (*World).updateEmployeeMovingToCustomer, EmployeeAskingCustomer).
		Define(EmployeeAskingCustomer, "AskingCustomer", (*World).updateEmployeeAsking, EmployeeWaitingForAppliance).
		Define(EmployeeWaitingForAppliance, "WaitingForAppliance", (*World).updateEmployeeWaitingForAppliance, EmployeeMovingToAppliance).
		Define(EmployeeMovingToAppliance, "MovingToAppliance", (*World).updateEmployeeMovingToAppliance, EmployeePreparing, EmployeeWaitingForAppliance).
		Define(EmployeePreparing, "Preparing", (*World).updateEmployeePreparing, EmployeeMovingToCustomerToDeliver).
		Define(EmployeeMovingToCustomerToDeliver, "MovingToCustomerToDeliver", (*World).updateEmployeeMovingToDeliver, EmployeeDelivering).
		Define(EmployeeDelivering, "Delivering", (*World).updateEmployeeDelivering, EmployeeWaitingIdlePosition).
		Define(EmployeeWaitingIdlePosition, "WaitingIdlePosition", (*World).updateEmployeeWaitingIdle, EmployeeMovingToIdle, EmployeeMovingToCustomer).
		Define(EmployeeMovingToIdle, "MovingToIdle", (*World).updateEmployeeMovingToIdle, EmployeeIdle, EmployeeMovingToCustomer)

	m.OnEnter(EmployeeMovingToCustomer, func(w *World, i int) {
		e := &w.employees[i]
		if e.Idle.Valid() {
			w.idle.Free(e.Idle)
			e.Idle = NoHandle
		}
		w.moveEmployeeToCustomer(i)
	})
	m.OnEnter(EmployeeAskingCustomer, func(w *World, i int) {
		w.employees[i].Remaining = w.opts.Timers.Ask
		w.askForProduct(i)
	})
	m.OnEnter(EmployeeMovingToAppliance, func(w *World, i int) {
		w.bubble(event.GroupEmployee, i, event.BubbleHide, "")
		w.mover.MoveTo(navigation.Employee(i), w.appliances[w.employees[i].Appliance].Position)
	})
	m.OnEnter(EmployeeMovingToCustomerToDeliver, func(w *World, i int) {
		e := &w.employees[i]
		if e.Appliance.Valid() {
			w.appliances[e.Appliance].Busy = false
			e.Appliance = NoHandle
		}
		w.bubble(event.GroupEmployee, i, event.BubbleProduct, e.Product)
		w.moveEmployeeToCustomer(i)
	})
	m.OnEnter(EmployeeDelivering, func(w *World, i int) {
		e := &w.employees[i]
		e.Remaining = w.opts.Timers.Deliver
		if e.Customer.Valid() {
			w.setCustomerStatus(int(e.Customer), CustomerReceivingOrder)
		} else {
			w.warn(fmt.Errorf("employee %d delivering without a customer", i))
		}
	})
	m.OnEnter(EmployeeWaitingIdlePosition, func(w *World, i int) {
		e := &w.employees[i]
		if e.Product != "" {
			w.completeProduct(i, e.Product)
			w.bubble(event.GroupEmployee, i, event.BubbleCoin, e.Product)
		}
		e.Product = ""
		e.Customer = NoHandle
	})
	m.OnEnter(EmployeeMovingToIdle, func(w *World, i int) {
		w.mover.MoveTo(navigation.Employee(i), w.idle.At(w.employees[i].Idle).EmployeePos)
	})

	m.OnChange(func(w *World, i int, from, to EmployeeStatus) {
		w.emit(event.EventEmployeeStatus, &event.StatusPayload{
			Index: i, From: from.String(), To: to.String(), Walking: to.Walking(),
		})
	})
	return m
}

func (w *World) setEmployeeStatus(i int, to EmployeeStatus) bool {
	if err := w.employeeFSM.Transition(w, i, &w.employees[i].Status, to); err != nil {
		w.warn(err)
		return false
	}
	return true
}

func (w *World) moveEmployeeToCustomer(i int) {
	e := &w.employees[i]
	if !e.Customer.Valid() {
		return
	}
	bar := w.customers[e.Customer].Bar
	if !bar.Valid() {
		w.warn(fmt.Errorf("employee %d: customer %d holds no bar slot", i, e.Customer))
		return
	}
	w.mover.MoveTo(navigation.Employee(i), w.bars.At(bar).EmployeePos)
}

// Employee returns a copy of employee h
func (w *World) Employee(h Handle) (Employee, bool) {
	if h < 0 || int(h) >= len(w.employees) {
		return Employee{}, false
	}
	return w.employees[h], true
}

// activateEmployee puts pool slot i on the floor looking for an idle spot
func (w *World) activateEmployee(i int) {
	e := &w.employees[i]
	e.reset()
	e.Active = true
	w.mover.Place(navigation.Employee(i), w.opts.Layout.EmployeeEntry)
	w.employeeFSM.Force(w, i, &e.Status, EmployeeIdle)
	w.setEmployeeStatus(i, EmployeeWaitingIdlePosition)
}

// deactivateEmployee releases every claim and parks the employee; only game reset does this
func (w *World) deactivateEmployee(i int) {
	e := &w.employees[i]
	if e.Idle.Valid() {
		w.idle.Free(e.Idle)
	}
	if e.Appliance.Valid() {
		w.appliances[e.Appliance].Busy = false
	}
	w.employeeFSM.Force(w, i, &e.Status, EmployeeIdle)
	e.reset()
	e.Active = false
	w.mover.Place(navigation.Employee(i), w.opts.Layout.EmployeeEntry)
}

// claimWaitingCustomer attends the first waiting customer and heads to it
func (w *World) claimWaitingCustomer(i int) bool {
	h := w.FindCustomerWaiting()
	if h == NoHandle {
		return false
	}
	w.customers[h].Attend()
	w.employees[i].Customer = h
	return w.setEmployeeStatus(i, EmployeeMovingToCustomer)
}

// askForProduct picks the order and pushes the customer into explaining it
func (w *World) askForProduct(i int) {
	e := &w.employees[i]
	if e.Product != "" || !e.Customer.Valid() {
		return
	}
	p, ok := w.RandomProduct()
	if !ok {
		return
	}
	e.Product = p.ID
	w.customers[e.Customer].Product = p.ID
	w.setCustomerStatus(int(e.Customer), CustomerExplainingOrder)
}

func (w *World) updateEmployeeIdle(i int, _ time.Duration) {
	w.claimWaitingCustomer(i)
}

func (w *World) updateEmployeeMovingToCustomer(i int, _ time.Duration) {
	if w.mover.Arrived(navigation.Employee(i)) {
		w.setEmployeeStatus(i, EmployeeAskingCustomer)
	}
}

func (w *World) updateEmployeeAsking(i int, dt time.Duration) {
	e := &w.employees[i]
	w.askForProduct(i)
	if countdown(&e.Remaining, dt) && e.Product != "" {
		w.setEmployeeStatus(i, EmployeeWaitingForAppliance)
	}
}

func (w *World) updateEmployeeWaitingForAppliance(i int, _ time.Duration) {
	e := &w.employees[i]
	h := w.FindFreeAppliance(e.Product)
	if h == NoHandle {
		return
	}
	w.appliances[h].Busy = true
	e.Appliance = h
	w.setEmployeeStatus(i, EmployeeMovingToAppliance)
}

func (w *World) updateEmployeeMovingToAppliance(i int, _ time.Duration) {
	if !w.mover.Arrived(navigation.Employee(i)) {
		return
	}
	e := &w.employees[i]
	d, err := w.StartPreparing(e.Appliance, e.Product)
	if err != nil {
		w.warn(fmt.Errorf("employee %d: %w", i, err))
		w.appliances[e.Appliance].Busy = false
		e.Appliance = NoHandle
		w.setEmployeeStatus(i, EmployeeWaitingForAppliance)
		return
	}
	e.Remaining = d
	w.setEmployeeStatus(i, EmployeePreparing)
}

func (w *World) updateEmployeePreparing(i int, dt time.Duration) {
	if countdown(&w.employees[i].Remaining, dt) {
		w.setEmployeeStatus(i, EmployeeMovingToCustomerToDeliver)
	}
}

func (w *World) updateEmployeeMovingToDeliver(i int, _ time.Duration) {
	if w.mover.Arrived(navigation.Employee(i)) {
		w.setEmployeeStatus(i, EmployeeDelivering)
	}
}

func (w *World) updateEmployeeDelivering(i int, dt time.Duration) {
	if countdown(&w.employees[i].Remaining, dt) {
		w.setEmployeeStatus(i, EmployeeWaitingIdlePosition)
	}
}

func (w *World) updateEmployeeWaitingIdle(i int, _ time.Duration) {
	if w.claimWaitingCustomer(i) {
		return
	}
	h := w.FindIdlePosition()
	if h == NoHandle {
		return
	}
	w.idle.Reserve(h, Handle(i))
	w.employees[i].Idle = h
	w.setEmployeeStatus(i, EmployeeMovingToIdle)
}

func (w *World) updateEmployeeMovingToIdle(i int, _ time.Duration) {
	if w.claimWaitingCustomer(i) {
		return
	}
	if w.mover.Arrived(navigation.Employee(i)) {
		w.setEmployeeStatus(i, EmployeeIdle)
	}
}
