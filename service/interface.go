package service

import "context"

// Service defines the lifecycle interface for infrastructure subsystems
// Services manage long-lived resources around the simulation: store, broker, audio, http api, scheduler
//
// Lifecycle:
//  1. Construction (by the command wiring)
//  2. Register with a Hub
//  3. Start(ctx) - open connections, launch goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Start before this one
	// Return nil or empty slice if no dependencies
	Dependencies() []string

	// Start begins service operation
	// ctx is cancelled when the process shuts down
	Start(ctx context.Context) error

	// Stop halts service operation and releases resources
	// Must be idempotent - safe to call multiple times
	Stop() error
}

// Func adapts plain functions into a Service
type Func struct {
	ID        string
	DependsOn []string
	OnStart   func(ctx context.Context) error
	OnStop    func() error
}

func (f *Func) Name() string           { return f.ID }
func (f *Func) Dependencies() []string { return f.DependsOn }

func (f *Func) Start(ctx context.Context) error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart(ctx)
}

func (f *Func) Stop() error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop()
}
