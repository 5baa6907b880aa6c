// Package navigation moves actors between layout positions
// The simulation only issues targets and polls arrival; how agents travel is decided here
package navigation

import (
	"fmt"
	"math"
)

// Position is a point on the shop floor in layout units
type Position struct {
	X float64 `toml:"x" json:"x"`
	Y float64 `toml:"y" json:"y"`
}

// Pos is a shorthand constructor
func Pos(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Add returns p offset by d
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Dist returns the euclidean distance between two positions
func (p Position) Dist(q Position) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Position) String() string {
	return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y)
}

// Group separates agent index spaces
type Group uint8

const (
	GroupCustomer Group = iota
	GroupEmployee
)

func (g Group) String() string {
	switch g {
	case GroupCustomer:
		return "customer"
	case GroupEmployee:
		return "employee"
	default:
		return "unknown"
	}
}

// AgentID addresses one moving actor
type AgentID struct {
	Group Group
	Index int
}

// Customer returns the agent id of customer i
func Customer(i int) AgentID { return AgentID{Group: GroupCustomer, Index: i} }

// Employee returns the agent id of employee i
func Employee(i int) AgentID { return AgentID{Group: GroupEmployee, Index: i} }
