package parameter

// Movement
const (
	// WalkSpeed is the linear mover speed in layout units per second
	WalkSpeed = 8.0

	// StoppingDistance is the radius within which an agent counts as arrived
	StoppingDistance = 0.1
)
