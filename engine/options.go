package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/bunny-coffee/navigation"
	"github.com/lixenwraith/bunny-coffee/parameter"
)

var ErrInvalidOptions = errors.New("invalid world options")

// Timers are the fixed phase durations shared by every actor
type Timers struct {
	Think   time.Duration
	Explain time.Duration
	Receive time.Duration
	Consume time.Duration
	Review  time.Duration
	Ask     time.Duration
	Deliver time.Duration
	Finish  time.Duration
}

// BarLayout places both sides of a bar slot
type BarLayout struct {
	Customer navigation.Position
	Employee navigation.Position
}

// StationLayout places one appliance of a fixed type
type StationLayout struct {
	TypeID   string
	Position navigation.Position
}

// Layout is the shop floor; pool sizes follow the number of positions
type Layout struct {
	Queue         []navigation.Position
	Bars          []BarLayout
	Tables        []navigation.Position
	Idle          []navigation.Position
	Stations      []StationLayout
	CustomerExit  navigation.Position
	EmployeeEntry navigation.Position
}

// Options configures a World
type Options struct {
	ProcessEvery     time.Duration
	SpawnInterval    time.Duration
	MinSpawnInterval time.Duration
	MaxCustomers     int
	MaxEmployees     int
	Timers           Timers
	Layout           Layout
	Seed             int64
}

// DefaultTimers returns the compiled-in phase durations
func DefaultTimers() Timers {
	return Timers{
		Think:   parameter.ThinkOrderTime,
		Explain: parameter.ExplainOrderTime,
		Receive: parameter.ReceiveOrderTime,
		Consume: parameter.ConsumeOrderTime,
		Review:  parameter.ReviewOrderTime,
		Ask:     parameter.AskCustomerTime,
		Deliver: parameter.DeliverTime,
		Finish:  parameter.FinishTime,
	}
}

// DefaultLayout is a small shop: six queue spots, three bar seats, four tables
func DefaultLayout() Layout {
	l := Layout{
		CustomerExit:  navigation.Pos(60, 0),
		EmployeeEntry: navigation.Pos(0, 0),
	}
	for i := 0; i < 6; i++ {
		l.Queue = append(l.Queue, navigation.Pos(24, 4+float64(i)*2))
	}
	for i := 0; i < 3; i++ {
		y := 4 + float64(i)*4
		l.Bars = append(l.Bars, BarLayout{Customer: navigation.Pos(16, y), Employee: navigation.Pos(12, y)})
	}
	for i := 0; i < 4; i++ {
		l.Tables = append(l.Tables, navigation.Pos(34+float64(i%2)*8, 4+float64(i/2)*8))
	}
	for i := 0; i < 4; i++ {
		l.Idle = append(l.Idle, navigation.Pos(4, 2+float64(i)*3))
	}
	for i, typeID := range []string{"espresso-machine", "tea-station", "espresso-machine", "oven"} {
		l.Stations = append(l.Stations, StationLayout{TypeID: typeID, Position: navigation.Pos(2+float64(i)*4, 18)})
	}
	return l
}

// DefaultOptions returns options built from compiled-in parameters
func DefaultOptions() Options {
	return Options{
		ProcessEvery:     parameter.ProcessEvery,
		SpawnInterval:    parameter.SpawnInterval,
		MinSpawnInterval: parameter.MinSpawnInterval,
		MaxCustomers:     parameter.MaxCustomers,
		MaxEmployees:     parameter.MaxEmployees,
		Timers:           DefaultTimers(),
		Layout:           DefaultLayout(),
		Seed:             1,
	}
}

// Validate checks limits and pool sizes
func (o Options) Validate() error {
	switch {
	case o.ProcessEvery <= 0:
		return fmt.Errorf("%w: process interval must be positive", ErrInvalidOptions)
	case o.SpawnInterval <= 0 || o.MinSpawnInterval < 0:
		return fmt.Errorf("%w: spawn intervals must be positive", ErrInvalidOptions)
	case o.MaxCustomers <= 0 || o.MaxEmployees <= 0:
		return fmt.Errorf("%w: pool limits must be positive", ErrInvalidOptions)
	case len(o.Layout.Queue) == 0:
		return fmt.Errorf("%w: layout needs at least one queue position", ErrInvalidOptions)
	case len(o.Layout.Bars) == 0:
		return fmt.Errorf("%w: layout needs at least one bar position", ErrInvalidOptions)
	case len(o.Layout.Tables) == 0:
		return fmt.Errorf("%w: layout needs at least one table", ErrInvalidOptions)
	case len(o.Layout.Stations) == 0:
		return fmt.Errorf("%w: layout needs at least one station", ErrInvalidOptions)
	}

	t := o.Timers
	for name, d := range map[string]time.Duration{
		"think": t.Think, "explain": t.Explain, "receive": t.Receive, "consume": t.Consume,
		"review": t.Review, "ask": t.Ask, "deliver": t.Deliver, "finish": t.Finish,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s timer is negative", ErrInvalidOptions, name)
		}
	}
	return nil
}
