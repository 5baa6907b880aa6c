package engine

import (
	"testing"
)

func TestQueueLookups(t *testing.T) {
	f := newFixture(t, testOptions(4, 1, 1), noStaff())

	f.world.RunSafe(func(w *World) {
		tests := []struct {
			name  string
			busy  []int
			ready bool
			empty bool
			free  Handle
		}{
			{"empty", nil, true, true, 0},
			{"prefix", []int{0, 1}, true, false, 2},
			{"gap at front", []int{1}, false, false, 0},
			{"gap in middle", []int{0, 2}, false, false, 1},
			{"full", []int{0, 1, 2, 3}, true, false, NoHandle},
		}
		for _, tt := range tests {
			w.queue.Clear()
			for _, i := range tt.busy {
				w.queue.Reserve(Handle(i), Handle(i))
			}
			if got := w.IsQueueReady(); got != tt.ready {
				t.Errorf("%s: IsQueueReady expected %v, got %v", tt.name, tt.ready, got)
			}
			if got := w.IsQueueEmpty(); got != tt.empty {
				t.Errorf("%s: IsQueueEmpty expected %v, got %v", tt.name, tt.empty, got)
			}
			if got := w.FindFreeQueue(); got != tt.free {
				t.Errorf("%s: FindFreeQueue expected %d, got %d", tt.name, tt.free, got)
			}
		}
		w.queue.Clear()

		next := []struct {
			in, want Handle
		}{
			{0, NoHandle}, {1, 0}, {3, 2}, {4, NoHandle}, {NoHandle, NoHandle},
		}
		for _, tt := range next {
			if got := w.FindNextQueue(tt.in); got != tt.want {
				t.Errorf("FindNextQueue(%d): expected %d, got %d", tt.in, tt.want, got)
			}
		}
	})
}

func TestFindFreeAppliance(t *testing.T) {
	f := newFixture(t, testOptions(2, 1, 1), noStaff())

	f.world.RunSafe(func(w *World) {
		if h := w.FindFreeAppliance("tea"); h != NoHandle {
			t.Errorf("Expected no tea station, got %d", h)
		}
		if h := w.FindFreeAppliance("latte"); h != 0 {
			t.Errorf("Expected station 0, got %d", h)
		}
		w.appliances[0].Busy = true
		if h := w.FindFreeAppliance("latte"); h != NoHandle {
			t.Errorf("Expected busy station skipped, got %d", h)
		}

		w.activateAppliance(1, 0)
		if h := w.FindFreeAppliance("tea"); h != 1 {
			t.Errorf("Expected kettle, got %d", h)
		}
	})
}

func TestAvailableProducts(t *testing.T) {
	f := newFixture(t, testOptions(2, 1, 1), noStaff())

	f.world.RunSafe(func(w *World) {
		products := w.AvailableProducts()
		if len(products) != 1 || products[0].ID != "latte" {
			t.Fatalf("Expected [latte], got %+v", products)
		}

		w.activateAppliance(1, 0)
		products = w.AvailableProducts()
		if len(products) != 2 || products[1].ID != "tea" {
			t.Errorf("Expected [latte tea], got %+v", products)
		}

		seen := map[string]int{}
		for i := 0; i < 200; i++ {
			p, ok := w.RandomProduct()
			if !ok {
				t.Fatal("Expected a product")
			}
			seen[p.ID]++
		}
		if seen["latte"] == 0 || seen["tea"] == 0 {
			t.Errorf("Expected both products picked, got %v", seen)
		}

		w.deactivateAppliance(0)
		w.deactivateAppliance(1)
		if _, ok := w.RandomProduct(); ok {
			t.Error("Expected no product with every station off")
		}
	})
}

func TestFindIdleAndTable(t *testing.T) {
	f := newFixture(t, testOptions(2, 1, 2), noStaff())

	f.world.RunSafe(func(w *World) {
		if h := w.FindIdlePosition(); h != 0 {
			t.Errorf("Expected idle 0, got %d", h)
		}
		w.idle.Reserve(0, 0)
		if h := w.FindIdlePosition(); h != 1 {
			t.Errorf("Expected idle 1, got %d", h)
		}
		w.tables.Reserve(0, 3)
		if h := w.FindFreeTable(); h != 1 {
			t.Errorf("Expected table 1, got %d", h)
		}
		if h := w.FindFreeBar(); h != 0 {
			t.Errorf("Expected bar 0, got %d", h)
		}
		if w.Pool(SlotTable) != w.tables || w.Pool(SlotKind(7)) != nil {
			t.Error("Unexpected Pool lookup")
		}
	})
}
