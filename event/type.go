package event

// EventType identifies a presentation event
type EventType int

const (
	EventNone EventType = iota

	// Actor status changes
	EventCustomerStatus
	EventEmployeeStatus
	EventApplianceStatus

	// Cues
	EventBubble
	EventApplianceLevelUp
	EventMoneyChanged

	// Lifecycle
	EventCustomerSpawned
	EventCustomerLeft
	EventProductCompleted

	// Economy
	EventEmployeeHired
	EventApplianceBought
	EventDecorationBought
	EventPurchaseRejected
	EventGameReset
)

// GameEvent is a discrete state change emitted by the simulation
// Tick is the simulation tick that produced it
type GameEvent struct {
	Type    EventType
	Payload any
	Tick    int64
}
