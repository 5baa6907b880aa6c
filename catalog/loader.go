package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultCatalog []byte

// Default returns the catalog shipped with the binary
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a TOML file
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a TOML catalog, then builds the id indices
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.productIdx = make(map[string]int, len(c.Products))
	for i, p := range c.Products {
		if _, dup := c.productIdx[p.ID]; dup {
			return fmt.Errorf("%w: duplicate product %q", ErrInvalidCatalog, p.ID)
		}
		c.productIdx[p.ID] = i
	}

	c.applianceIdx = make(map[string]int, len(c.Appliances))
	for i, a := range c.Appliances {
		if _, dup := c.applianceIdx[a.ID]; dup {
			return fmt.Errorf("%w: duplicate appliance type %q", ErrInvalidCatalog, a.ID)
		}
		c.applianceIdx[a.ID] = i
	}

	c.customerIdx = make(map[string]int, len(c.Customers))
	for i, ct := range c.Customers {
		if _, dup := c.customerIdx[ct.ID]; dup {
			return fmt.Errorf("%w: duplicate customer type %q", ErrInvalidCatalog, ct.ID)
		}
		c.customerIdx[ct.ID] = i
	}
	return nil
}

// Validate checks cross references and value ranges
func (c *Catalog) Validate() error {
	if len(c.Products) == 0 {
		return fmt.Errorf("%w: no products", ErrInvalidCatalog)
	}
	if len(c.Customers) == 0 {
		return fmt.Errorf("%w: no customer types", ErrInvalidCatalog)
	}

	for _, p := range c.Products {
		if p.ID == "" {
			return fmt.Errorf("%w: product without id", ErrInvalidCatalog)
		}
		if p.Price < 0 {
			return fmt.Errorf("%w: product %q has negative price", ErrInvalidCatalog, p.ID)
		}
	}

	for _, a := range c.Appliances {
		if len(a.Levels) == 0 {
			return fmt.Errorf("%w: appliance type %q has no levels", ErrInvalidCatalog, a.ID)
		}
		for li, lvl := range a.Levels {
			for _, lp := range lvl.Products {
				if _, ok := c.productIdx[lp.ProductID]; !ok {
					return fmt.Errorf("%w: appliance %q level %d: %w %q", ErrInvalidCatalog, a.ID, li, ErrUnknownProduct, lp.ProductID)
				}
				if lp.DurationSeconds <= 0 {
					return fmt.Errorf("%w: appliance %q level %d: product %q needs a positive duration", ErrInvalidCatalog, a.ID, li, lp.ProductID)
				}
				if lp.MinQuality > lp.MaxQuality {
					return fmt.Errorf("%w: appliance %q level %d: product %q quality range inverted", ErrInvalidCatalog, a.ID, li, lp.ProductID)
				}
			}
		}
	}

	for _, ct := range c.Customers {
		if ct.MinWaitSeconds > ct.MaxWaitSeconds {
			return fmt.Errorf("%w: customer type %q wait range inverted", ErrInvalidCatalog, ct.ID)
		}
	}

	for _, d := range c.Decorations {
		if d.Price < 0 {
			return fmt.Errorf("%w: decoration %q has negative price", ErrInvalidCatalog, d.ID)
		}
	}
	return nil
}
