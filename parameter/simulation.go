package parameter

import "time"

// Pool Capacities
const (
	// MaxCustomers is the size of the customer arena, reused round-robin across spawns
	MaxCustomers = 40

	// MaxEmployees is the hard cap on hired employees
	MaxEmployees = 4
)

// Customer Spawning
const (
	// SpawnInterval is the delay between customer spawns with a single employee
	SpawnInterval = 2 * time.Second

	// MinSpawnInterval is the floor of the employee-scaled spawn interval
	MinSpawnInterval = 500 * time.Millisecond
)

// Customer Timers
const (
	ThinkOrderTime   = 100 * time.Millisecond
	ExplainOrderTime = 2 * time.Second
	ReceiveOrderTime = 1 * time.Second
	ConsumeOrderTime = 15 * time.Second
	ReviewOrderTime  = 2 * time.Second
)

// Employee Timers
const (
	AskCustomerTime = 2 * time.Second
	DeliverTime     = 1 * time.Second
)

// Appliance Timers
const (
	// FinishTime is the cosmetic "ready" window before a finished station returns to idle
	FinishTime = 1 * time.Second
)

// Inactive Spot Grid
// Pooled actors park on a grid next to their entry point while inactive
const (
	InactiveGridSize    = 10
	InactiveGridSpacing = 5.0
)
