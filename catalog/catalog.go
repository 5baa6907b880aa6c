// Package catalog holds the immutable reference data of the shop: products, appliance types
// with their leveled menus, customer archetypes, decorations and employee hiring prices
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownProduct   = errors.New("unknown product")
	ErrUnknownAppliance = errors.New("unknown appliance type")
	ErrUnknownCustomer  = errors.New("unknown customer type")
	ErrInvalidCatalog   = errors.New("invalid catalog")
)

// Quality grades a prepared product
// Values keep the gaps of the authored data (there is no 3)
type Quality int

const (
	QualityBad     Quality = 0
	QualityMedium  Quality = 1
	QualityGood    Quality = 2
	QualityGreat   Quality = 4
	QualityPerfect Quality = 5
)

var qualityNames = map[Quality]string{
	QualityBad:     "bad",
	QualityMedium:  "medium",
	QualityGood:    "good",
	QualityGreat:   "great",
	QualityPerfect: "perfect",
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("quality(%d)", int(q))
}

// UnmarshalText accepts quality names in catalog files
func (q *Quality) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for v, n := range qualityNames {
		if n == name {
			*q = v
			return nil
		}
	}
	return fmt.Errorf("%w: unknown quality %q", ErrInvalidCatalog, name)
}

// MarshalText writes the quality name
func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// Product is a sellable item
type Product struct {
	ID      string  `toml:"id" json:"id"`
	Name    string  `toml:"name" json:"name"`
	Price   int     `toml:"price" json:"price"`
	Quality Quality `toml:"quality" json:"quality"`
}

// LevelProduct is one menu entry of an appliance level
type LevelProduct struct {
	ProductID       string  `toml:"product" json:"productId"`
	MinQuality      Quality `toml:"min_quality" json:"minQuality"`
	MaxQuality      Quality `toml:"max_quality" json:"maxQuality"`
	DurationSeconds float64 `toml:"duration" json:"durationSeconds"`
}

// Duration returns the preparation time of the entry
func (p LevelProduct) Duration() time.Duration {
	return time.Duration(p.DurationSeconds * float64(time.Second))
}

// ApplianceLevel is a capability tier; Price is the cost of upgrading into it
type ApplianceLevel struct {
	Name     string         `toml:"name" json:"name"`
	Price    int            `toml:"price" json:"price"`
	Products []LevelProduct `toml:"products" json:"products"`
}

// Find returns the menu entry for productID
func (l ApplianceLevel) Find(productID string) (LevelProduct, bool) {
	for _, p := range l.Products {
		if p.ProductID == productID {
			return p, true
		}
	}
	return LevelProduct{}, false
}

// Offers reports whether the level can prepare productID
func (l ApplianceLevel) Offers(productID string) bool {
	_, ok := l.Find(productID)
	return ok
}

// ApplianceType describes a station; levels are ordered by increasing capability and price
type ApplianceType struct {
	ID        string           `toml:"id" json:"id"`
	Name      string           `toml:"name" json:"name"`
	BasePrice int              `toml:"base_price" json:"basePrice"`
	Levels    []ApplianceLevel `toml:"levels" json:"levels"`
}

// Level returns level i
func (t ApplianceType) Level(i int) (ApplianceLevel, bool) {
	if i < 0 || i >= len(t.Levels) {
		return ApplianceLevel{}, false
	}
	return t.Levels[i], true
}

// ClampLevel maps any requested level into [0, len(Levels))
func (t ApplianceType) ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level >= len(t.Levels) {
		return len(t.Levels) - 1
	}
	return level
}

// CustomerType is an archetype; wait and quality fields are informational
type CustomerType struct {
	ID             string  `toml:"id" json:"id"`
	Name           string  `toml:"name" json:"name"`
	MinWaitSeconds int     `toml:"min_wait" json:"minWaitSeconds"`
	MaxWaitSeconds int     `toml:"max_wait" json:"maxWaitSeconds"`
	MinQuality     Quality `toml:"min_quality" json:"minQuality"`
}

// Decoration is a purchasable cosmetic, bought in catalog order
type Decoration struct {
	ID    string `toml:"id" json:"id"`
	Name  string `toml:"name" json:"name"`
	Price int    `toml:"price" json:"price"`
}

// Catalog is the loaded reference data
// Immutable after Load; safe for concurrent readers
type Catalog struct {
	EmployeePrices []int           `toml:"employee_prices"`
	Products       []Product       `toml:"products"`
	Appliances     []ApplianceType `toml:"appliances"`
	Customers      []CustomerType  `toml:"customers"`
	Decorations    []Decoration    `toml:"decorations"`

	productIdx   map[string]int
	applianceIdx map[string]int
	customerIdx  map[string]int
}

// ProductByID looks up a product
func (c *Catalog) ProductByID(id string) (Product, bool) {
	i, ok := c.productIdx[id]
	if !ok {
		return Product{}, false
	}
	return c.Products[i], true
}

// ProductAt returns the product at index i
func (c *Catalog) ProductAt(i int) Product { return c.Products[i] }

// ProductCount returns the number of products
func (c *Catalog) ProductCount() int { return len(c.Products) }

// ApplianceByID looks up an appliance type
func (c *Catalog) ApplianceByID(id string) (ApplianceType, bool) {
	i, ok := c.applianceIdx[id]
	if !ok {
		return ApplianceType{}, false
	}
	return c.Appliances[i], true
}

// ApplianceAt returns the appliance type at index i
func (c *Catalog) ApplianceAt(i int) ApplianceType { return c.Appliances[i] }

// ApplianceCount returns the number of appliance types
func (c *Catalog) ApplianceCount() int { return len(c.Appliances) }

// CustomerByID looks up a customer archetype
func (c *Catalog) CustomerByID(id string) (CustomerType, bool) {
	i, ok := c.customerIdx[id]
	if !ok {
		return CustomerType{}, false
	}
	return c.Customers[i], true
}

// CustomerAt returns the customer archetype at index i
func (c *Catalog) CustomerAt(i int) CustomerType { return c.Customers[i] }

// CustomerCount returns the number of customer archetypes
func (c *Catalog) CustomerCount() int { return len(c.Customers) }

// DecorationAt returns the decoration at index i
func (c *Catalog) DecorationAt(i int) Decoration { return c.Decorations[i] }

// DecorationCount returns the number of purchasable decorations
func (c *Catalog) DecorationCount() int { return len(c.Decorations) }

// EmployeePrice returns the cost of hiring when owned employees are already on staff
func (c *Catalog) EmployeePrice(owned int) (int, bool) {
	if owned < 0 || owned >= len(c.EmployeePrices) {
		return 0, false
	}
	return c.EmployeePrices[owned], true
}
