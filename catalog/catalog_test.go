package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const tinyCatalog = `
employee_prices = [0, 10]

[[products]]
id = "latte"
name = "Latte"
price = 4
quality = "good"

[[appliances]]
id = "espresso"
name = "Espresso"
base_price = 50

  [[appliances.levels]]
  name = "Basic"
  price = 0

    [[appliances.levels.products]]
    product = "latte"
    min_quality = "bad"
    max_quality = "good"
    duration = 5

  [[appliances.levels]]
  name = "Pro"
  price = 30

    [[appliances.levels.products]]
    product = "latte"
    min_quality = "good"
    max_quality = "perfect"
    duration = 2.5

[[customers]]
id = "regular"
name = "Regular"
min_wait = 5
max_wait = 10
min_quality = "medium"
`

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if c.ProductCount() == 0 || c.ApplianceCount() == 0 || c.CustomerCount() == 0 {
		t.Fatalf("Expected populated default catalog, got %d products, %d appliances, %d customers",
			c.ProductCount(), c.ApplianceCount(), c.CustomerCount())
	}

	latte, ok := c.ProductByID("coffee-latte")
	if !ok {
		t.Fatal("Expected coffee-latte in default catalog")
	}
	if latte.Price != 4 {
		t.Errorf("Expected latte price 4, got %d", latte.Price)
	}

	price, ok := c.EmployeePrice(0)
	if !ok || price != 0 {
		t.Errorf("Expected first employee free, got %d (ok=%v)", price, ok)
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(tinyCatalog))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	at, ok := c.ApplianceByID("espresso")
	if !ok {
		t.Fatal("Expected espresso appliance")
	}
	if len(at.Levels) != 2 {
		t.Fatalf("Expected 2 levels, got %d", len(at.Levels))
	}

	lp, ok := at.Levels[0].Find("latte")
	if !ok {
		t.Fatal("Expected latte at level 0")
	}
	if lp.Duration() != 5*time.Second {
		t.Errorf("Expected 5s, got %v", lp.Duration())
	}
	if lp.MaxQuality != QualityGood {
		t.Errorf("Expected max quality good, got %v", lp.MaxQuality)
	}

	pro, _ := at.Level(1)
	lp, _ = pro.Find("latte")
	if lp.Duration() != 2500*time.Millisecond {
		t.Errorf("Expected 2.5s, got %v", lp.Duration())
	}

	ct, ok := c.CustomerByID("regular")
	if !ok {
		t.Fatal("Expected regular customer")
	}
	if ct.MinQuality != QualityMedium || ct.MaxWaitSeconds != 10 {
		t.Errorf("Unexpected customer type: %+v", ct)
	}

	if _, ok := c.ProductByID("mocha"); ok {
		t.Error("Expected unknown product lookup to fail")
	}
	if _, ok := c.EmployeePrice(2); ok {
		t.Error("Expected no price past the hiring list")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte(tinyCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if c.ProductAt(0).ID != "latte" {
		t.Errorf("Expected latte at index 0, got %q", c.ProductAt(0).ID)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown product", strings.Replace(tinyCatalog, `product = "latte"
    min_quality = "bad"`, `product = "mocha"
    min_quality = "bad"`, 1)},
		{"duplicate product", tinyCatalog + `
[[products]]
id = "latte"
name = "Latte Again"
price = 5
`},
		{"zero duration", strings.Replace(tinyCatalog, "duration = 5", "duration = 0", 1)},
		{"inverted quality", strings.Replace(tinyCatalog, `min_quality = "bad"
    max_quality = "good"`, `min_quality = "great"
    max_quality = "bad"`, 1)},
		{"unknown quality", strings.Replace(tinyCatalog, `quality = "good"`, `quality = "divine"`, 1)},
		{"inverted wait", strings.Replace(tinyCatalog, "max_wait = 10", "max_wait = 1", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
		})
	}
}

func TestUnknownProductWrapped(t *testing.T) {
	data := strings.Replace(tinyCatalog, `product = "latte"
    min_quality = "bad"`, `product = "mocha"
    min_quality = "bad"`, 1)
	_, err := Load(strings.NewReader(data))
	if !errors.Is(err, ErrUnknownProduct) || !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("Expected ErrUnknownProduct and ErrInvalidCatalog, got %v", err)
	}
}

func TestClampLevel(t *testing.T) {
	at := ApplianceType{Levels: make([]ApplianceLevel, 3)}
	tests := []struct {
		in, want int
	}{
		{-1, 0}, {0, 0}, {2, 2}, {7, 2},
	}
	for _, tt := range tests {
		if got := at.ClampLevel(tt.in); got != tt.want {
			t.Errorf("ClampLevel(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestQualityText(t *testing.T) {
	var q Quality
	if err := q.UnmarshalText([]byte(" Great ")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if q != QualityGreat || int(q) != 4 {
		t.Errorf("Expected great (4), got %v (%d)", q, int(q))
	}
	b, _ := QualityPerfect.MarshalText()
	if string(b) != "perfect" {
		t.Errorf("Expected perfect, got %s", b)
	}
	if Quality(3).String() != "quality(3)" {
		t.Errorf("Expected quality(3), got %s", Quality(3).String())
	}
}
