package fsm

import (
	"errors"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownState      = errors.New("unknown state")
)

// State is any integer enum used as a state id
type State interface {
	~int
}

// ActionFunc executes a side effect for the actor at idx
type ActionFunc[T any] func(ctx T, idx int)

// UpdateFunc advances the actor at idx by dt while it sits in a state
type UpdateFunc[T any] func(ctx T, idx int, dt time.Duration)

// ChangeFunc observes a completed transition
type ChangeFunc[S State, T any] func(ctx T, idx int, from, to S)

// Node is one row of the state table
type Node[S State, T any] struct {
	ID   S
	Name string

	// Lifecycle Actions
	OnEnter  ActionFunc[T]
	OnUpdate UpdateFunc[T]
	OnExit   ActionFunc[T]

	// Allowed targets in declaration order
	Next []S
}
