package engine

import (
	"time"

	"github.com/lixenwraith/bunny-coffee/event"
)

// Drive advances w by total game time in steps of step without a wall clock
// Events are dispatched after every step; returns the number of ticks that ran
func Drive(w *World, router *event.Router, total, step time.Duration) int {
	if step <= 0 {
		return 0
	}
	ticks := 0
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		if w.Advance(step) {
			ticks++
		}
		if router != nil {
			router.DispatchAll()
		}
	}
	return ticks
}
