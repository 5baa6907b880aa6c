// Package persist stores the player's game state in a string-keyed preference store
package persist

import (
	"encoding/json"
	"fmt"
	"slices"
)

// GameState is the single versioned save record
// Schema changes bump the store key instead of migrating old records
type GameState struct {
	Money           int   `json:"money"`
	NumEmployees    int   `json:"numEmployees"`
	ApplianceLevels []int `json:"applianceLevels"`
	NumDecorations  int   `json:"numDecorations"`
}

// Default is the state of a fresh game: no money, one employee, one base-level appliance
func Default() GameState {
	return GameState{
		Money:           0,
		NumEmployees:    1,
		ApplianceLevels: []int{0},
		NumDecorations:  0,
	}
}

// Clone returns a deep copy
func (s GameState) Clone() GameState {
	s.ApplianceLevels = slices.Clone(s.ApplianceLevels)
	if s.ApplianceLevels == nil {
		s.ApplianceLevels = []int{}
	}
	return s
}

// Equal compares every persisted field
func (s GameState) Equal(o GameState) bool {
	return s.Money == o.Money &&
		s.NumEmployees == o.NumEmployees &&
		s.NumDecorations == o.NumDecorations &&
		slices.Equal(s.ApplianceLevels, o.ApplianceLevels)
}

// Marshal encodes the state as the stored JSON document
func Marshal(s GameState) (string, error) {
	b, err := json.Marshal(s.Clone())
	if err != nil {
		return "", fmt.Errorf("encode game state: %w", err)
	}
	return string(b), nil
}

// Unmarshal decodes a stored JSON document
func Unmarshal(data string) (GameState, error) {
	var s GameState
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return GameState{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if s.NumEmployees < 0 || s.NumDecorations < 0 {
		return GameState{}, fmt.Errorf("%w: negative counts", ErrCorrupt)
	}
	// "null" and "{}" decode to a shop with no staff and no stations
	if s.NumEmployees == 0 && len(s.ApplianceLevels) == 0 {
		return GameState{}, fmt.Errorf("%w: empty shop", ErrCorrupt)
	}
	for _, lvl := range s.ApplianceLevels {
		if lvl < 0 {
			return GameState{}, fmt.Errorf("%w: negative appliance level", ErrCorrupt)
		}
	}
	return s.Clone(), nil
}
