package navigation

import (
	"time"
)

// Mover is the movement collaborator polled by actor state machines
type Mover interface {
	// Place teleports an agent and clears any pending movement
	Place(id AgentID, p Position)
	// MoveTo sets a new destination
	MoveTo(id AgentID, target Position)
	// Arrived reports no pending path and remaining distance within stopping distance
	Arrived(id AgentID) bool
	// Position returns the current agent position
	Position(id AgentID) Position
}

// Stepper is implemented by movers that advance over simulated time
type Stepper interface {
	Step(dt time.Duration)
}

// InstantMover arrives on the same call; used by headless runs and tests
type InstantMover struct {
	positions map[AgentID]Position
}

// NewInstantMover creates an empty instant mover
func NewInstantMover() *InstantMover {
	return &InstantMover{positions: make(map[AgentID]Position)}
}

func (m *InstantMover) Place(id AgentID, p Position)       { m.positions[id] = p }
func (m *InstantMover) MoveTo(id AgentID, target Position) { m.positions[id] = target }
func (m *InstantMover) Arrived(AgentID) bool               { return true }
func (m *InstantMover) Position(id AgentID) Position       { return m.positions[id] }

// agent is the per-actor state of LinearMover
type agent struct {
	pos     Position
	target  Position
	pending bool // latched by MoveTo, cleared by the next Step
}

// LinearMover walks agents in straight lines at a fixed speed
// A destination set by MoveTo is not reported as reached until at least one Step ran,
// matching a path planner that resolves paths asynchronously
type LinearMover struct {
	speed    float64 // units per second
	stopping float64
	agents   map[AgentID]*agent
}

// NewLinearMover creates a mover with speed in units per second and a stopping distance
func NewLinearMover(speed, stopping float64) *LinearMover {
	if stopping < 0 {
		stopping = 0
	}
	return &LinearMover{
		speed:    speed,
		stopping: stopping,
		agents:   make(map[AgentID]*agent),
	}
}

func (m *LinearMover) get(id AgentID) *agent {
	a, ok := m.agents[id]
	if !ok {
		a = &agent{}
		m.agents[id] = a
	}
	return a
}

// Place teleports an agent and clears any pending movement
func (m *LinearMover) Place(id AgentID, p Position) {
	a := m.get(id)
	a.pos = p
	a.target = p
	a.pending = false
}

// MoveTo sets a new destination; the path resolves on the next Step
func (m *LinearMover) MoveTo(id AgentID, target Position) {
	a := m.get(id)
	a.target = target
	a.pending = true
}

// Arrived reports whether the agent has no pending path and is within stopping distance
func (m *LinearMover) Arrived(id AgentID) bool {
	a, ok := m.agents[id]
	if !ok {
		return true
	}
	return !a.pending && a.pos.Dist(a.target) <= m.stopping
}

// Position returns the current agent position
func (m *LinearMover) Position(id AgentID) Position {
	if a, ok := m.agents[id]; ok {
		return a.pos
	}
	return Position{}
}

// Step advances every agent toward its target by speed*dt
func (m *LinearMover) Step(dt time.Duration) {
	maxStep := m.speed * dt.Seconds()
	for _, a := range m.agents {
		a.pending = false

		dist := a.pos.Dist(a.target)
		if dist <= m.stopping {
			continue
		}
		if dist <= maxStep {
			a.pos = a.target
			continue
		}
		ratio := maxStep / dist
		a.pos = Position{
			X: a.pos.X + (a.target.X-a.pos.X)*ratio,
			Y: a.pos.Y + (a.target.Y-a.pos.Y)*ratio,
		}
	}
}
