package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/bunny-coffee/catalog"
	"github.com/lixenwraith/bunny-coffee/engine/fsm"
	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/navigation"
)

var (
	ErrProductNotAvailable = errors.New("product not available at this level")
	ErrApplianceNotIdle    = errors.New("appliance not idle")
)

// ApplianceStatus is the station cycle
type ApplianceStatus int

const (
	ApplianceIdle ApplianceStatus = iota
	AppliancePreparing
	ApplianceFinished
)

var applianceStatusNames = [...]string{"Idle", "Preparing", "Finished"}

func (s ApplianceStatus) String() string {
	if s < 0 || int(s) >= len(applianceStatusNames) {
		return fmt.Sprintf("ApplianceStatus(%d)", int(s))
	}
	return applianceStatusNames[s]
}

// Appliance is one station on the floor
// Busy is an employee claim and is independent of Status
type Appliance struct {
	TypeID    string
	Level     int
	Status    ApplianceStatus
	Active    bool
	Busy      bool
	Remaining time.Duration
	Product   string
	Position  navigation.Position
}

func newApplianceMachine() *fsm.Machine[ApplianceStatus, *World] {
	m := fsm.NewMachine[ApplianceStatus, *World]("appliance")
	m.Define(ApplianceIdle, "Idle", nil, AppliancePreparing).
		Define(AppliancePreparing, "Preparing", (*World).updateAppliancePreparing, ApplianceFinished).
		Define(ApplianceFinished, "Finished", (*World).updateApplianceFinished, ApplianceIdle)

	m.OnEnter(ApplianceFinished, func(w *World, i int) {
		w.appliances[i].Remaining = w.opts.Timers.Finish
	})
	m.OnEnter(ApplianceIdle, func(w *World, i int) {
		w.appliances[i].Product = ""
	})
	m.OnChange(func(w *World, i int, from, to ApplianceStatus) {
		w.emit(event.EventApplianceStatus, &event.StatusPayload{Index: i, From: from.String(), To: to.String()})
	})
	return m
}

func (w *World) applianceType(a *Appliance) catalog.ApplianceType {
	t, _ := w.cat.ApplianceByID(a.TypeID)
	return t
}

func (w *World) validAppliance(h Handle) bool {
	return h >= 0 && int(h) < len(w.appliances)
}

// activateAppliance brings station i online at level, clamped into the type's range
func (w *World) activateAppliance(i int, level int) {
	a := &w.appliances[i]
	t := w.applianceType(a)

	a.Level = t.ClampLevel(level)
	a.Busy = false
	a.Remaining = 0
	a.Product = ""
	w.applianceFSM.Force(w, i, &a.Status, ApplianceIdle)
	a.Active = true

	if a.Level > 0 {
		w.emit(event.EventApplianceLevelUp, &event.LevelUpPayload{Index: i, TypeID: a.TypeID, Level: a.Level})
	}
}

// deactivateAppliance takes station i offline; only game reset does this
func (w *World) deactivateAppliance(i int) {
	a := &w.appliances[i]
	w.applianceFSM.Force(w, i, &a.Status, ApplianceIdle)
	a.Active = false
	a.Busy = false
	a.Level = 0
	a.Remaining = 0
	a.Product = ""
}

// Appliance returns a copy of station h
func (w *World) Appliance(h Handle) (Appliance, bool) {
	if !w.validAppliance(h) {
		return Appliance{}, false
	}
	return w.appliances[h], true
}

// CanPrepare reports whether station h is free to start productID now
// Caller holds the world lock
func (w *World) CanPrepare(h Handle, productID string) bool {
	if !w.validAppliance(h) {
		return false
	}
	a := &w.appliances[h]
	if !a.Active || a.Status != ApplianceIdle || a.Busy {
		return false
	}
	lvl, ok := w.applianceType(a).Level(a.Level)
	return ok && lvl.Offers(productID)
}

// StartPreparing begins productID on station h and returns its duration
// Fails without mutation when the station is not idle or the product is not on its menu
// Caller holds the world lock
func (w *World) StartPreparing(h Handle, productID string) (time.Duration, error) {
	if !w.validAppliance(h) || !w.appliances[h].Active {
		return 0, fmt.Errorf("station %d: %w", h, ErrInvalidAppliance)
	}
	a := &w.appliances[h]
	if a.Status != ApplianceIdle {
		return 0, fmt.Errorf("station %d is %s: %w", h, a.Status, ErrApplianceNotIdle)
	}

	lvl, _ := w.applianceType(a).Level(a.Level)
	lp, ok := lvl.Find(productID)
	if !ok {
		return 0, fmt.Errorf("station %d level %d %q: %w", h, a.Level, productID, ErrProductNotAvailable)
	}

	a.Product = productID
	a.Remaining = lp.Duration()
	if err := w.applianceFSM.Transition(w, int(h), &a.Status, AppliancePreparing); err != nil {
		return 0, err
	}
	return a.Remaining, nil
}

// levelUpAppliance raises station i by one level
func (w *World) levelUpAppliance(i int) error {
	a := &w.appliances[i]
	t := w.applianceType(a)
	if a.Level+1 >= len(t.Levels) {
		return ErrMaxLevel
	}
	a.Level++
	w.emit(event.EventApplianceLevelUp, &event.LevelUpPayload{Index: i, TypeID: a.TypeID, Level: a.Level})
	return nil
}

func (w *World) updateAppliancePreparing(i int, dt time.Duration) {
	if countdown(&w.appliances[i].Remaining, dt) {
		w.setApplianceStatus(i, ApplianceFinished)
	}
}

func (w *World) updateApplianceFinished(i int, dt time.Duration) {
	if countdown(&w.appliances[i].Remaining, dt) {
		w.setApplianceStatus(i, ApplianceIdle)
	}
}

func (w *World) setApplianceStatus(i int, to ApplianceStatus) bool {
	if err := w.applianceFSM.Transition(w, i, &w.appliances[i].Status, to); err != nil {
		w.warn(err)
		return false
	}
	return true
}
