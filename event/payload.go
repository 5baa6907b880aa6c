package event

// Actor groups used in payloads
const (
	GroupCustomer  = "customer"
	GroupEmployee  = "employee"
	GroupAppliance = "appliance"
)

// Bubble kinds shown over an actor
const (
	BubbleThinking = "thinking"
	BubbleProduct  = "product"
	BubbleCoin     = "coin"
	BubbleHappy    = "happy"
	BubbleHide     = "hide"
)

// StatusPayload reports a state machine transition of one actor
type StatusPayload struct {
	Index   int    `json:"index"`
	From    string `json:"from"`
	To      string `json:"to"`
	Walking bool   `json:"walking"`
}

// BubblePayload requests a speech bubble over an actor
type BubblePayload struct {
	Group     string `json:"group"`
	Index     int    `json:"index"`
	Bubble    string `json:"bubble"`
	ProductID string `json:"productId,omitempty"`
}

// LevelUpPayload carries the new level of a station
type LevelUpPayload struct {
	Index  int    `json:"index"`
	TypeID string `json:"typeId"`
	Level  int    `json:"level"`
}

// MoneyChangedPayload carries the balance after a mutation and the signed delta
type MoneyChangedPayload struct {
	Money int `json:"money"`
	Delta int `json:"delta"`
}

// CustomerSpawnedPayload identifies a customer leaving the pool
type CustomerSpawnedPayload struct {
	Index  int    `json:"index"`
	TypeID string `json:"typeId"`
	ToBar  bool   `json:"toBar"`
}

// CustomerLeftPayload identifies a customer returned to the pool
type CustomerLeftPayload struct {
	Index int `json:"index"`
}

// ProductCompletedPayload reports a delivered order
type ProductCompletedPayload struct {
	Employee  int    `json:"employee"`
	ProductID string `json:"productId"`
	Price     int    `json:"price"`
}

// PurchasePayload reports a successful economy action
type PurchasePayload struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Price int    `json:"price"`
	Owned int    `json:"owned"`
}

// RejectedPayload reports an economy action refused without mutation
type RejectedPayload struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}
