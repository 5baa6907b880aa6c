package engine

import (
	"github.com/lixenwraith/bunny-coffee/catalog"
	"github.com/lixenwraith/bunny-coffee/navigation"
	"github.com/lixenwraith/bunny-coffee/persist"
)

// CustomerView is the read-only projection of an active customer
type CustomerView struct {
	Index    int                 `json:"index"`
	TypeID   string              `json:"typeId"`
	Status   string              `json:"status"`
	Attended bool                `json:"attended"`
	Product  string              `json:"product,omitempty"`
	Queue    int                 `json:"queue"`
	Bar      int                 `json:"bar"`
	Table    int                 `json:"table"`
	Position navigation.Position `json:"position"`
}

// EmployeeView is the read-only projection of a hired employee
type EmployeeView struct {
	Index     int                 `json:"index"`
	Status    string              `json:"status"`
	Customer  int                 `json:"customer"`
	Appliance int                 `json:"appliance"`
	Product   string              `json:"product,omitempty"`
	Position  navigation.Position `json:"position"`
}

// ApplianceView is the read-only projection of a station
type ApplianceView struct {
	Index     int     `json:"index"`
	TypeID    string  `json:"typeId"`
	Name      string  `json:"name"`
	LevelName string  `json:"levelName"`
	Level     int     `json:"level"`
	Status    string  `json:"status"`
	Active    bool    `json:"active"`
	Busy      bool    `json:"busy"`
	Product   string  `json:"product,omitempty"`
	Remaining float64 `json:"remaining"`
}

// Snapshot is a consistent copy of the world taken under the lock
type Snapshot struct {
	Tick        int64                `json:"tick"`
	Money       int                  `json:"money"`
	State       persist.GameState    `json:"state"`
	Offers      Offers               `json:"offers"`
	Customers   []CustomerView       `json:"customers"`
	Employees   []EmployeeView       `json:"employees"`
	Appliances  []ApplianceView      `json:"appliances"`
	Queue       []bool               `json:"queue"`
	Bars        []bool               `json:"bars"`
	Tables      []bool               `json:"tables"`
	Idle        []bool               `json:"idle"`
	Decorations []catalog.Decoration `json:"decorations"`
	Products    []catalog.Product    `json:"products"`
}

// Snapshot copies the world for front ends
func (w *World) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		Tick:     w.tick,
		Money:    w.state.Money,
		State:    w.state.Clone(),
		Offers:   w.offers(),
		Queue:    w.queue.Busy(),
		Bars:     w.bars.Busy(),
		Tables:   w.tables.Busy(),
		Idle:     w.idle.Busy(),
		Products: w.AvailableProducts(),
	}

	for i := range w.customers {
		c := &w.customers[i]
		if !c.Active {
			continue
		}
		s.Customers = append(s.Customers, CustomerView{
			Index:    i,
			TypeID:   c.TypeID,
			Status:   c.Status.String(),
			Attended: c.Attended,
			Product:  c.Product,
			Queue:    int(c.Queue),
			Bar:      int(c.Bar),
			Table:    int(c.Table),
			Position: w.mover.Position(navigation.Customer(i)),
		})
	}
	for i := range w.employees {
		e := &w.employees[i]
		if !e.Active {
			continue
		}
		s.Employees = append(s.Employees, EmployeeView{
			Index:     i,
			Status:    e.Status.String(),
			Customer:  int(e.Customer),
			Appliance: int(e.Appliance),
			Product:   e.Product,
			Position:  w.mover.Position(navigation.Employee(i)),
		})
	}
	for i := range w.appliances {
		a := &w.appliances[i]
		t := w.applianceType(a)
		lvl, _ := t.Level(a.Level)
		s.Appliances = append(s.Appliances, ApplianceView{
			Index:     i,
			TypeID:    a.TypeID,
			Name:      t.Name,
			LevelName: lvl.Name,
			Level:     a.Level,
			Status:    a.Status.String(),
			Active:    a.Active,
			Busy:      a.Busy,
			Product:   a.Product,
			Remaining: a.Remaining.Seconds(),
		})
	}
	for i, owned := range w.decorations {
		if owned {
			s.Decorations = append(s.Decorations, w.cat.DecorationAt(i))
		}
	}
	return s
}
