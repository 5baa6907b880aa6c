package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/bunny-coffee/core"
	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/parameter"
	"github.com/lixenwraith/bunny-coffee/status"
)

// ClockScheduler drives a World in real time on a fixed tick
// Game time comes from a PausableClock; presentation events are dispatched after each tick
type ClockScheduler struct {
	world  *World
	router *event.Router
	clock  *PausableClock

	// Tick configuration
	tickInterval     time.Duration
	lastGameTickTime time.Time
	nextTickDeadline time.Time // drift correction

	tickCount atomic.Uint64
	mu        sync.RWMutex

	// Control channels
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	running    atomic.Bool
	resetChan  chan struct{}
	updateDone chan struct{}

	// Cached metric pointers
	statTickMillis  *status.AtomicFloat
	statPaused      *atomic.Bool
	statCycles      *atomic.Int64
	statPauseMillis *atomic.Int64
}

// NewClockScheduler creates a scheduler; router may be nil when nothing consumes events
func NewClockScheduler(world *World, router *event.Router, clock *PausableClock, reg *status.Registry, tickInterval time.Duration) *ClockScheduler {
	if clock == nil {
		clock = NewPausableClock(nil)
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if tickInterval <= 0 {
		tickInterval = parameter.GameUpdateInterval
	}
	return &ClockScheduler{
		world:            world,
		router:           router,
		clock:            clock,
		tickInterval:     tickInterval,
		lastGameTickTime: clock.Now(),
		stopChan:         make(chan struct{}),
		resetChan:        make(chan struct{}, 1),
		updateDone:       make(chan struct{}, 1),
		statTickMillis:   reg.Floats.Get(status.EngineTickMillis),
		statPaused:       reg.Bools.Get(status.EnginePaused),
		statCycles:       reg.Ints.Get(status.EngineCycles),
		statPauseMillis:  reg.Ints.Get(status.EnginePauseMillis),
	}
}

// Updates signals after every processed tick; the signal is dropped when nobody listens
func (cs *ClockScheduler) Updates() <-chan struct{} {
	return cs.updateDone
}

// TickCount returns scheduler cycles since start or the last reset
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop and waits for it
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// RequestReset queues a game reset on the scheduler goroutine
func (cs *ClockScheduler) RequestReset() {
	select {
	case cs.resetChan <- struct{}{}:
	default:
	}
}

// Pause freezes game time
func (cs *ClockScheduler) Pause() {
	cs.clock.Pause()
	cs.statPaused.Store(true)
}

// Resume continues game time
func (cs *ClockScheduler) Resume() {
	cs.clock.Resume()
	cs.statPaused.Store(false)
}

// TogglePause flips the pause state and returns the new one
func (cs *ClockScheduler) TogglePause() bool {
	if cs.clock.IsPaused() {
		cs.Resume()
		return false
	}
	cs.Pause()
	return true
}

// IsPaused returns the pause state
func (cs *ClockScheduler) IsPaused() bool {
	return cs.clock.IsPaused()
}

func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.mu.Lock()
	cs.lastGameTickTime = cs.clock.Now()
	cs.nextTickDeadline = cs.lastGameTickTime.Add(cs.tickInterval)
	cs.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case <-cs.resetChan:
			cs.executeReset()
			continue
		default:
		}

		var sleepDuration time.Duration

		if cs.clock.IsPaused() {
			// Longer sleep while paused
			sleepDuration = cs.tickInterval * 2
		} else {
			gameNow := cs.clock.Now()

			cs.mu.RLock()
			deadline := cs.nextTickDeadline
			cs.mu.RUnlock()

			if !gameNow.Before(deadline) {
				cs.processTick(gameNow)

				cs.mu.Lock()
				cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)
				if gameNow.Sub(cs.nextTickDeadline) > cs.tickInterval*2 {
					cs.nextTickDeadline = gameNow.Add(cs.tickInterval)
				}
				deadline = cs.nextTickDeadline
				cs.mu.Unlock()

				if n := cs.tickCount.Add(1); n%parameter.MetricsEveryTicks == 0 {
					cs.publishMetrics(n)
				}

				select {
				case cs.updateDone <- struct{}{}:
				default:
				}

				sleepDuration = deadline.Sub(cs.clock.Now())
				if sleepDuration < 0 {
					sleepDuration = 0
				}
			} else {
				sleepDuration = deadline.Sub(gameNow)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.resetChan:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				cs.executeReset()
			case <-cs.stopChan:
				return
			}
		}
	}
}

// executeReset resets the world and realigns tick timing
func (cs *ClockScheduler) executeReset() {
	cs.world.ResetGame()

	cs.mu.Lock()
	cs.tickCount.Store(0)
	cs.lastGameTickTime = cs.clock.Now()
	cs.nextTickDeadline = cs.lastGameTickTime.Add(cs.tickInterval)
	cs.mu.Unlock()

	cs.dispatch()
}

// processTick advances the world by the game time elapsed since the previous tick
func (cs *ClockScheduler) processTick(gameNow time.Time) {
	cs.mu.Lock()
	delta := gameNow.Sub(cs.lastGameTickTime)
	cs.lastGameTickTime = gameNow
	cs.mu.Unlock()

	start := cs.clock.RealTime()
	cs.world.Advance(delta)
	cs.dispatch()
	cs.statTickMillis.Set(float64(cs.clock.RealTime().Sub(start).Microseconds()) / 1000)
}

// publishMetrics refreshes the slow-moving scheduler metrics
func (cs *ClockScheduler) publishMetrics(cycles uint64) {
	cs.statCycles.Store(int64(cycles))
	cs.statPauseMillis.Store(cs.clock.TotalPauseDuration().Milliseconds())
}

// dispatch runs event handlers outside the world lock
func (cs *ClockScheduler) dispatch() {
	if cs.router != nil {
		cs.router.DispatchAll()
	}
}
