package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/bunny-coffee/catalog"
	"github.com/lixenwraith/bunny-coffee/engine/fsm"
	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/navigation"
	"github.com/lixenwraith/bunny-coffee/parameter"
	"github.com/lixenwraith/bunny-coffee/persist"
	"github.com/lixenwraith/bunny-coffee/status"
)

var (
	ErrNotAffordable    = errors.New("not affordable")
	ErrCapacity         = errors.New("no capacity left")
	ErrMaxLevel         = errors.New("already at max level")
	ErrInvalidAppliance = errors.New("invalid appliance")
	ErrInvariant        = errors.New("invariant violated")
)

// Saver persists the game state after every economy mutation
type Saver interface {
	Save(ctx context.Context, st persist.GameState) error
}

// WorldConfig carries the collaborators of a World
// Mover defaults to an instant mover; Events, Status and Saver are optional
type WorldConfig struct {
	Catalog *catalog.Catalog
	Options Options
	Initial persist.GameState
	Mover   navigation.Mover
	Events  *event.Queue
	Status  *status.Registry
	Saver   Saver
}

// World owns every pool and runs the fixed tick
// Exported methods take the world lock; lowercase helpers and actor lookups expect it held
type World struct {
	mu sync.Mutex

	cat    *catalog.Catalog
	opts   Options
	mover  navigation.Mover
	events *event.Queue
	saver  Saver
	rng    *rand.Rand

	queue  *SlotPool
	bars   *SlotPool
	tables *SlotPool
	idle   *SlotPool

	appliances  []Appliance
	customers   []Customer
	employees   []Employee
	decorations []bool

	state persist.GameState

	accumulated  time.Duration
	spawnTimer   time.Duration
	lastCustomer int
	tick         int64

	customerFSM  *fsm.Machine[CustomerStatus, *World]
	employeeFSM  *fsm.Machine[EmployeeStatus, *World]
	applianceFSM *fsm.Machine[ApplianceStatus, *World]

	// Cached metric pointers
	statTicks     *atomic.Int64
	statSpawned   *atomic.Int64
	statServed    *atomic.Int64
	statActive    *atomic.Int64
	statOrders    *atomic.Int64
	statMoney     *atomic.Int64
	statRejected  *atomic.Int64
	statStoreErrs *atomic.Int64

	// Scratch for the customer pass
	visited []bool
}

// NewWorld builds the pools from the layout and restores cfg.Initial
func NewWorld(cfg WorldConfig) (*World, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", ErrInvalidOptions)
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	if cfg.Catalog.CustomerCount() == 0 {
		return nil, fmt.Errorf("%w: catalog has no customer types", ErrInvalidOptions)
	}

	opts := cfg.Options
	layout := opts.Layout

	w := &World{
		cat:    cfg.Catalog,
		opts:   opts,
		mover:  cfg.Mover,
		events: cfg.Events,
		saver:  cfg.Saver,
	}
	if w.mover == nil {
		w.mover = navigation.NewInstantMover()
	}
	if opts.Seed == 0 {
		w.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		w.rng = rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)))
	}

	reg := cfg.Status
	if reg == nil {
		reg = status.NewRegistry()
	}
	w.statTicks = reg.Ints.Get(status.EngineTicks)
	w.statSpawned = reg.Ints.Get(status.CustomersSpawned)
	w.statServed = reg.Ints.Get(status.CustomersServed)
	w.statActive = reg.Ints.Get(status.CustomersActive)
	w.statOrders = reg.Ints.Get(status.OrdersCompleted)
	w.statMoney = reg.Ints.Get(status.EconomyMoney)
	w.statRejected = reg.Ints.Get(status.EconomyRejected)
	w.statStoreErrs = reg.Ints.Get(status.StoreErrors)

	barCustomer := make([]navigation.Position, len(layout.Bars))
	barEmployee := make([]navigation.Position, len(layout.Bars))
	for i, b := range layout.Bars {
		barCustomer[i] = b.Customer
		barEmployee[i] = b.Employee
	}
	w.queue = NewSlotPool(SlotQueue, layout.Queue, nil)
	w.bars = NewSlotPool(SlotBar, barCustomer, barEmployee)
	w.tables = NewSlotPool(SlotTable, layout.Tables, nil)
	w.idle = NewSlotPool(SlotIdle, nil, layout.Idle)

	w.appliances = make([]Appliance, len(layout.Stations))
	for i, st := range layout.Stations {
		t, ok := cfg.Catalog.ApplianceByID(st.TypeID)
		if !ok {
			return nil, fmt.Errorf("station %d: %w: %q", i, catalog.ErrUnknownAppliance, st.TypeID)
		}
		w.appliances[i] = Appliance{TypeID: t.ID, Position: st.Position}
	}

	w.customerFSM = newCustomerMachine()
	w.employeeFSM = newEmployeeMachine()
	w.applianceFSM = newApplianceMachine()
	for _, err := range []error{w.customerFSM.Validate(), w.employeeFSM.Validate(), w.applianceFSM.Validate()} {
		if err != nil {
			return nil, err
		}
	}

	// Archetypes are fixed per pool slot
	w.customers = make([]Customer, opts.MaxCustomers)
	for i := range w.customers {
		c := &w.customers[i]
		c.TypeID = cfg.Catalog.CustomerAt(w.rng.IntN(cfg.Catalog.CustomerCount())).ID
		c.home = inactivePosition(layout.CustomerExit, i)
		c.reset()
		w.mover.Place(navigation.Customer(i), c.home)
	}
	w.employees = make([]Employee, opts.MaxEmployees)
	for i := range w.employees {
		w.employees[i].reset()
		w.mover.Place(navigation.Employee(i), layout.EmployeeEntry)
	}
	w.decorations = make([]bool, cfg.Catalog.DecorationCount())
	w.visited = make([]bool, opts.MaxCustomers)

	w.restore(cfg.Initial)
	return w, nil
}

// inactivePosition parks pool slot i on a grid anchored at origin
func inactivePosition(origin navigation.Position, i int) navigation.Position {
	return origin.Add(navigation.Pos(
		float64(i/parameter.InactiveGridSize)*parameter.InactiveGridSpacing,
		float64(i%parameter.InactiveGridSize)*parameter.InactiveGridSpacing,
	))
}

// restore activates entities described by st, clamping counts to the pools
func (w *World) restore(st persist.GameState) {
	st = st.Clone()
	if st.Money < 0 {
		st.Money = 0
	}
	if st.NumEmployees < 0 {
		st.NumEmployees = 0
	}
	if st.NumEmployees > len(w.employees) {
		log.Printf("engine: clamping %d employees to %d", st.NumEmployees, len(w.employees))
		st.NumEmployees = len(w.employees)
	}
	if len(st.ApplianceLevels) > len(w.appliances) {
		log.Printf("engine: clamping %d stations to %d", len(st.ApplianceLevels), len(w.appliances))
		st.ApplianceLevels = st.ApplianceLevels[:len(w.appliances)]
	}
	if st.NumDecorations < 0 {
		st.NumDecorations = 0
	}
	if st.NumDecorations > len(w.decorations) {
		st.NumDecorations = len(w.decorations)
	}

	for i := 0; i < st.NumEmployees; i++ {
		w.activateEmployee(i)
	}
	for i, lvl := range st.ApplianceLevels {
		w.activateAppliance(i, lvl)
		st.ApplianceLevels[i] = w.appliances[i].Level
	}
	for i := 0; i < st.NumDecorations; i++ {
		w.decorations[i] = true
	}

	w.state = st
	w.spawnTimer = w.spawnInterval()
	w.statMoney.Store(int64(st.Money))
}

// countdown decrements *d by dt, clamping at zero; reports expiry
func countdown(d *time.Duration, dt time.Duration) bool {
	*d -= dt
	if *d <= 0 {
		*d = 0
		return true
	}
	return false
}

func (w *World) emit(t event.EventType, payload any) {
	if w.events == nil {
		return
	}
	w.events.Emit(t, payload, w.tick)
}

func (w *World) bubble(group string, i int, kind, productID string) {
	w.emit(event.EventBubble, &event.BubblePayload{Group: group, Index: i, Bubble: kind, ProductID: productID})
}

func (w *World) warn(err error) {
	log.Printf("engine: %v", err)
}

// save writes the current state through the saver; failures leave memory authoritative
func (w *World) save() {
	if w.saver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), parameter.StoreTimeout)
	defer cancel()
	if err := w.saver.Save(ctx, w.state.Clone()); err != nil {
		w.statStoreErrs.Add(1)
		log.Printf("store: save failed: %v", err)
	}
}

// Catalog returns the reference data the world was built with
func (w *World) Catalog() *catalog.Catalog {
	return w.cat
}

// Options returns the options the world was built with
func (w *World) Options() Options {
	return w.opts
}

// Pool returns the slot pool of kind
// Caller holds the world lock
func (w *World) Pool(kind SlotKind) *SlotPool {
	switch kind {
	case SlotQueue:
		return w.queue
	case SlotBar:
		return w.bars
	case SlotTable:
		return w.tables
	case SlotIdle:
		return w.idle
	}
	return nil
}

// RunSafe runs fn with the world lock held
func (w *World) RunSafe(fn func(w *World)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w)
}

// Money returns the current balance
func (w *World) Money() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Money
}

// State returns a copy of the persisted game state
func (w *World) State() persist.GameState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Clone()
}

// TickCount returns the number of ticks processed
func (w *World) TickCount() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// ResetGame deactivates every entity, restores the default state and persists it
func (w *World) ResetGame() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.customers {
		if !w.customers[i].Active {
			continue
		}
		c := &w.customers[i]
		w.releaseCustomerSlots(i, false)
		w.customerFSM.Force(w, i, &c.Status, CustomerIdle)
		c.reset()
		c.Active = false
		w.mover.Place(navigation.Customer(i), c.home)
		w.statActive.Add(-1)
	}
	for i := range w.employees {
		if w.employees[i].Active {
			w.deactivateEmployee(i)
		}
	}
	for i := range w.appliances {
		w.deactivateAppliance(i)
	}
	for i := range w.decorations {
		w.decorations[i] = false
	}
	for _, p := range []*SlotPool{w.queue, w.bars, w.tables, w.idle} {
		p.Clear()
	}

	w.accumulated = 0
	w.lastCustomer = 0
	w.restore(persist.Default())
	w.save()
	w.emit(event.EventGameReset, nil)
	w.emit(event.EventMoneyChanged, &event.MoneyChangedPayload{Money: w.state.Money})
}
