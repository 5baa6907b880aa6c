package persist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Manager reads and writes the game state record under one key
type Manager struct {
	store   Store
	key     string
	timeout time.Duration
}

// NewManager binds a store to a versioned key
// timeout bounds each store round trip; zero disables the bound
func NewManager(store Store, key string, timeout time.Duration) *Manager {
	return &Manager{store: store, key: key, timeout: timeout}
}

// Key returns the versioned record key
func (m *Manager) Key() string {
	return m.key
}

func (m *Manager) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.timeout)
}

// Load returns the stored state
// Absent or undecodable records yield Default; the error, if any, explains why
func (m *Manager) Load(ctx context.Context) (GameState, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	raw, err := m.store.Get(ctx, m.key)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load %s: %w", m.key, err)
	}

	st, err := Unmarshal(raw)
	if err != nil {
		log.Printf("store: discarding %s: %v", m.key, err)
		return Default(), fmt.Errorf("load %s: %w", m.key, err)
	}
	return st, nil
}

// Save writes the state through to the store
func (m *Manager) Save(ctx context.Context, st GameState) error {
	raw, err := Marshal(st)
	if err != nil {
		return err
	}

	ctx, cancel := m.bound(ctx)
	defer cancel()
	if err := m.store.Set(ctx, m.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", m.key, err)
	}
	return nil
}

// Reset removes the stored record
func (m *Manager) Reset(ctx context.Context) error {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	if err := m.store.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("reset %s: %w", m.key, err)
	}
	return nil
}
