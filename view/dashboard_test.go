package view

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bunny-coffee/catalog"
	"github.com/lixenwraith/bunny-coffee/engine"
	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/persist"
	"github.com/lixenwraith/bunny-coffee/status"
)

type fakeClock struct {
	paused bool
	resets int
}

func (c *fakeClock) TogglePause() bool { c.paused = !c.paused; return c.paused }
func (c *fakeClock) IsPaused() bool    { return c.paused }
func (c *fakeClock) RequestReset()     { c.resets++ }

func newTestDashboard(t *testing.T, money int) (*Dashboard, *engine.World, *fakeClock, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(100, 40)

	reg := status.NewRegistry()
	w, err := engine.NewWorld(engine.WorldConfig{
		Catalog: catalog.Default(),
		Options: engine.DefaultOptions(),
		Initial: persist.GameState{Money: money, NumEmployees: 1, ApplianceLevels: []int{0}},
		Status:  reg,
	})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	clock := &fakeClock{}
	return NewDashboard(screen, w, clock, reg), w, clock, screen
}

// screenText returns every row of the screen joined by newlines
func screenText(s tcell.Screen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestDrawShowsEconomy(t *testing.T) {
	d, _, clock, screen := newTestDashboard(t, 100)
	clock.paused = true
	d.Draw()

	text := screenText(screen)
	for _, want := range []string{
		"BUNNY COFFEE",
		"$100",
		"PAUSED",
		"[e] Hire employee",
		"owned 1  $60",
		"[a] Buy station",
		"Espresso Machine",
		"Queue",
		"0/6",
		"Stations",
		"Staff",
		"Customers (0)",
		"[q]uit",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected screen to contain %q", want)
		}
	}
}

func TestHandleKeyPurchases(t *testing.T) {
	d, w, _, _ := newTestDashboard(t, 100)

	if !d.HandleKey(key('e')) {
		t.Fatal("Expected hire key to keep running")
	}
	if w.Money() != 40 {
		t.Errorf("Expected money 40 after hire, got %d", w.Money())
	}
	if got := w.State().NumEmployees; got != 2 {
		t.Errorf("Expected 2 employees, got %d", got)
	}

	d.HandleKey(key('a'))
	if !strings.Contains(d.Notice(), engine.ErrNotAffordable.Error()) {
		t.Errorf("Expected not affordable notice, got %q", d.Notice())
	}
	if w.Money() != 40 {
		t.Errorf("Expected rejected purchase to keep money, got %d", w.Money())
	}
}

func TestHandleKeyControls(t *testing.T) {
	d, _, clock, _ := newTestDashboard(t, 0)

	d.HandleKey(key('p'))
	if !clock.paused || d.Notice() != "Paused" {
		t.Errorf("Expected paused, got paused=%v notice=%q", clock.paused, d.Notice())
	}
	d.HandleKey(key('p'))
	if clock.paused {
		t.Error("Expected resumed")
	}
	d.HandleKey(key('r'))
	if clock.resets != 1 {
		t.Errorf("Expected one reset request, got %d", clock.resets)
	}

	tests := []struct {
		name string
		ev   *tcell.EventKey
		want bool
	}{
		{"q quits", key('q'), false},
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"ctrl-c quits", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), false},
		{"arrow ignored", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), true},
		{"unbound rune ignored", key('z'), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.HandleKey(tt.ev); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHandleEventNotices(t *testing.T) {
	d, _, _, screen := newTestDashboard(t, 0)

	tests := []struct {
		ev   event.GameEvent
		want string
	}{
		{event.GameEvent{Type: event.EventPurchaseRejected, Payload: &event.RejectedPayload{Action: "hire", Reason: "not affordable"}}, "Cannot hire: not affordable"},
		{event.GameEvent{Type: event.EventProductCompleted, Payload: &event.ProductCompletedPayload{ProductID: "coffee-latte", Price: 4}}, "Sold coffee-latte for $4"},
		{event.GameEvent{Type: event.EventEmployeeHired, Payload: &event.PurchasePayload{Owned: 2}}, "Hired employee #2"},
		{event.GameEvent{Type: event.EventDecorationBought, Payload: &event.PurchasePayload{ID: "plant"}}, "Placed plant"},
		{event.GameEvent{Type: event.EventApplianceLevelUp, Payload: &event.LevelUpPayload{Index: 0, Level: 1}}, "Station 1 is now level 2"},
		{event.GameEvent{Type: event.EventGameReset}, "Game reset"},
	}
	for _, tt := range tests {
		d.HandleEvent(tt.ev)
		if d.Notice() != tt.want {
			t.Errorf("Expected notice %q, got %q", tt.want, d.Notice())
		}
	}

	d.Draw()
	if !strings.Contains(screenText(screen), "Game reset") {
		t.Error("Expected notice on screen")
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	d, _, _, screen := newTestDashboard(t, 0)

	done := make(chan struct{})
	go func() {
		d.Run(context.Background(), nil)
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for dashboard to quit")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	d, _, _, _ := newTestDashboard(t, 0)
	ctx, cancel := context.WithCancel(context.Background())

	updates := make(chan struct{}, 1)
	updates <- struct{}{}

	done := make(chan struct{})
	go func() {
		d.Run(ctx, updates)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for dashboard to stop")
	}
}
