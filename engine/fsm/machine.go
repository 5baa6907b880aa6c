package fsm

import (
	"fmt"
	"sort"
	"time"
)

// Machine is a flat state table shared by every actor of one kind
// Actors keep their own current state; the machine only validates and runs hooks
// T is the context passed to hooks (typically *engine.World)
type Machine[S State, T any] struct {
	name     string
	nodes    map[S]*Node[S, T]
	onChange []ChangeFunc[S, T]
}

// NewMachine creates an empty table
func NewMachine[S State, T any](name string) *Machine[S, T] {
	return &Machine[S, T]{
		name:  name,
		nodes: make(map[S]*Node[S, T]),
	}
}

// Define adds or replaces a state with its update handler and allowed targets
func (m *Machine[S, T]) Define(id S, name string, update UpdateFunc[T], next ...S) *Machine[S, T] {
	m.nodes[id] = &Node[S, T]{ID: id, Name: name, OnUpdate: update, Next: next}
	return m
}

// OnEnter attaches an enter action to a defined state
func (m *Machine[S, T]) OnEnter(id S, fn ActionFunc[T]) *Machine[S, T] {
	if n, ok := m.nodes[id]; ok {
		n.OnEnter = fn
	}
	return m
}

// OnExit attaches an exit action to a defined state
func (m *Machine[S, T]) OnExit(id S, fn ActionFunc[T]) *Machine[S, T] {
	if n, ok := m.nodes[id]; ok {
		n.OnExit = fn
	}
	return m
}

// OnChange registers an observer invoked after every transition, forced ones included
func (m *Machine[S, T]) OnChange(fn ChangeFunc[S, T]) {
	m.onChange = append(m.onChange, fn)
}

// Validate checks that every declared target is itself a defined state
func (m *Machine[S, T]) Validate() error {
	if len(m.nodes) == 0 {
		return fmt.Errorf("%s: no states defined", m.name)
	}
	for _, n := range m.nodes {
		for _, to := range n.Next {
			if _, ok := m.nodes[to]; !ok {
				return fmt.Errorf("%s: state %s targets %d: %w", m.name, n.Name, int(to), ErrUnknownState)
			}
		}
	}
	return nil
}

// CanTransition reports whether from -> to is an edge of the table
func (m *Machine[S, T]) CanTransition(from, to S) bool {
	n, ok := m.nodes[from]
	if !ok {
		return false
	}
	for _, next := range n.Next {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves *cur to target if the table allows it
// Runs exit of the old state, then enter of the new one, then change observers
func (m *Machine[S, T]) Transition(ctx T, idx int, cur *S, to S) error {
	from := *cur
	if !m.CanTransition(from, to) {
		return fmt.Errorf("%s[%d] %s -> %s: %w", m.name, idx, m.Name(from), m.Name(to), ErrInvalidTransition)
	}

	if n := m.nodes[from]; n.OnExit != nil {
		n.OnExit(ctx, idx)
	}
	*cur = to
	if n := m.nodes[to]; n.OnEnter != nil {
		n.OnEnter(ctx, idx)
	}

	m.notify(ctx, idx, from, to)
	return nil
}

// Force sets *cur without consulting the table or running lifecycle actions
// Used by activation and reset paths; observers still fire when the state changes
func (m *Machine[S, T]) Force(ctx T, idx int, cur *S, to S) {
	from := *cur
	*cur = to
	if from != to {
		m.notify(ctx, idx, from, to)
	}
}

func (m *Machine[S, T]) notify(ctx T, idx int, from, to S) {
	for _, fn := range m.onChange {
		fn(ctx, idx, from, to)
	}
}

// Update runs the update handler of state s for the actor at idx
func (m *Machine[S, T]) Update(ctx T, idx int, s S, dt time.Duration) {
	n, ok := m.nodes[s]
	if !ok || n.OnUpdate == nil {
		return
	}
	n.OnUpdate(ctx, idx, dt)
}

// Name returns the display name of s
func (m *Machine[S, T]) Name(s S) string {
	if n, ok := m.nodes[s]; ok {
		return n.Name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// States returns the defined states in ascending order
func (m *Machine[S, T]) States() []S {
	states := make([]S, 0, len(m.nodes))
	for id := range m.nodes {
		states = append(states, id)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

// String returns the machine name
func (m *Machine[S, T]) String() string {
	return m.name
}
