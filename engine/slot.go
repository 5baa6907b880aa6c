package engine

import (
	"github.com/lixenwraith/bunny-coffee/navigation"
)

// SlotKind names a reservable positional resource
type SlotKind int

const (
	SlotQueue SlotKind = iota
	SlotBar
	SlotTable
	SlotIdle
)

var slotKindNames = [...]string{"queue", "bar", "table", "idle"}

func (k SlotKind) String() string {
	if k < 0 || int(k) >= len(slotKindNames) {
		return "unknown"
	}
	return slotKindNames[k]
}

// Slot is one reservable position
// CustomerPos and EmployeePos are where each side of the interaction stands
type Slot struct {
	Index       int
	Busy        bool
	Owner       Handle
	CustomerPos navigation.Position
	EmployeePos navigation.Position
}

// SlotPool is an ordered set of slots of one kind
// For the queue, index 0 is the front
type SlotPool struct {
	kind  SlotKind
	slots []Slot
}

// NewSlotPool builds a pool; employee may be nil when both sides share a position
func NewSlotPool(kind SlotKind, customer, employee []navigation.Position) *SlotPool {
	n := len(customer)
	if len(employee) > n {
		n = len(employee)
	}
	p := &SlotPool{kind: kind, slots: make([]Slot, n)}
	for i := range p.slots {
		s := &p.slots[i]
		s.Index = i
		s.Owner = NoHandle
		if i < len(customer) {
			s.CustomerPos = customer[i]
			s.EmployeePos = customer[i]
		}
		if i < len(employee) {
			s.EmployeePos = employee[i]
			if i >= len(customer) {
				s.CustomerPos = employee[i]
			}
		}
	}
	return p
}

// Kind returns the slot kind
func (p *SlotPool) Kind() SlotKind { return p.kind }

// Len returns the number of slots
func (p *SlotPool) Len() int { return len(p.slots) }

func (p *SlotPool) valid(h Handle) bool {
	return h >= 0 && int(h) < len(p.slots)
}

// At returns a copy of slot h
func (p *SlotPool) At(h Handle) Slot {
	if !p.valid(h) {
		return Slot{Index: int(h), Owner: NoHandle}
	}
	return p.slots[h]
}

// IsBusy reports whether slot h is reserved; out-of-range handles count as busy
func (p *SlotPool) IsBusy(h Handle) bool {
	if !p.valid(h) {
		return true
	}
	return p.slots[h].Busy
}

// Owner returns the actor holding slot h
func (p *SlotPool) Owner(h Handle) Handle {
	if !p.valid(h) {
		return NoHandle
	}
	return p.slots[h].Owner
}

// Reserve claims slot h for owner; false if already busy
func (p *SlotPool) Reserve(h, owner Handle) bool {
	if !p.valid(h) || p.slots[h].Busy {
		return false
	}
	p.slots[h].Busy = true
	p.slots[h].Owner = owner
	return true
}

// Free releases slot h
func (p *SlotPool) Free(h Handle) {
	if !p.valid(h) {
		return
	}
	p.slots[h].Busy = false
	p.slots[h].Owner = NoHandle
}

// FindFree returns the lowest-index free slot
func (p *SlotPool) FindFree() Handle {
	for i := range p.slots {
		if !p.slots[i].Busy {
			return Handle(i)
		}
	}
	return NoHandle
}

// BusyCount returns the number of reserved slots
func (p *SlotPool) BusyCount() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].Busy {
			n++
		}
	}
	return n
}

// Busy returns the reservation flags in slot order
func (p *SlotPool) Busy() []bool {
	out := make([]bool, len(p.slots))
	for i := range p.slots {
		out[i] = p.slots[i].Busy
	}
	return out
}

// Clear releases every slot
func (p *SlotPool) Clear() {
	for i := range p.slots {
		p.slots[i].Busy = false
		p.slots[i].Owner = NoHandle
	}
}
