package persist

import (
	"errors"
	"testing"
)

func TestGameStateRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name  string
		state GameState
	}{
		{"default", Default()},
		{"rich shop", GameState{Money: 1234, NumEmployees: 4, ApplianceLevels: []int{2, 1, 0}, NumDecorations: 3}},
		{"no appliances", GameState{Money: 5, NumEmployees: 1, ApplianceLevels: []int{}, NumDecorations: 0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Marshal(tc.state)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			back, err := Unmarshal(raw)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !back.Equal(tc.state) {
				t.Errorf("Expected %+v, got %+v", tc.state, back)
			}
		})
	}
}

func TestGameStateWireFormat(t *testing.T) {
	raw, err := Marshal(GameState{Money: 7, NumEmployees: 2, ApplianceLevels: []int{1}, NumDecorations: 1})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"money":7,"numEmployees":2,"applianceLevels":[1],"numDecorations":1}`
	if raw != want {
		t.Errorf("Expected %s, got %s", want, raw)
	}

	// nil levels still encode as an array
	raw, _ = Marshal(GameState{NumEmployees: 1})
	if raw != `{"money":0,"numEmployees":1,"applianceLevels":[],"numDecorations":0}` {
		t.Errorf("Unexpected encoding for nil levels: %s", raw)
	}
}

func TestUnmarshalRejectsCorrupt(t *testing.T) {
	for _, raw := range []string{
		"not json",
		`{"money":1,"numEmployees":-1}`,
		`{"applianceLevels":[0,-2]}`,
		`null`,
		`{}`,
		`{"money":50,"numEmployees":0,"applianceLevels":[]}`,
	} {
		if _, err := Unmarshal(raw); !errors.Is(err, ErrCorrupt) {
			t.Errorf("Expected ErrCorrupt for %q, got %v", raw, err)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := GameState{ApplianceLevels: []int{0, 1}}
	b := a.Clone()
	b.ApplianceLevels[0] = 9
	if a.ApplianceLevels[0] != 0 {
		t.Error("Clone shares the levels slice")
	}
}
