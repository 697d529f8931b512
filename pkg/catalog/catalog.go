// Package catalog is a typed registry of placeable family types.
//
// The host application finds door, window and roof types by filtering its
// element collection at runtime. Here the same lookup is a map keyed by
// (category, family name, type name) that either returns a *Symbol or a
// NOT_FOUND error; a missing type never turns into a nil value that reaches
// the geometry.
//
// Catalogs are built in code ([Default]), or loaded from TOML ([Load]):
//
//	[[symbol]]
//	category = "doors"
//	family = "M_Single-Flush"
//	type = "0762 x 2134mm"
//	width_mm = 762
//	height_mm = 2134
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/footprint/pkg/errors"
)

// Category groups symbols by what they model.
type Category string

// Supported categories.
const (
	Doors   Category = "doors"
	Windows Category = "windows"
	Roofs   Category = "roofs"
	Walls   Category = "walls"
)

// Categories lists every supported category in display order.
var Categories = []Category{Walls, Doors, Windows, Roofs}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !slices.Contains(Categories, c) {
		return "", errors.InvalidArgument("unknown category %q (must be one of: walls, doors, windows, roofs)", s)
	}
	return c, nil
}

// Key identifies a family type.
type Key struct {
	Category Category `json:"category" bson:"category" toml:"category"`
	Family   string   `json:"family" bson:"family" toml:"family"`
	Type     string   `json:"type" bson:"type" toml:"type"`
}

// String renders the key as "category/family/type".
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Category, k.Family, k.Type)
}

// Symbol is a placeable family type. Dimensions are in millimeters, as the
// type names in the host catalog are.
type Symbol struct {
	Key
	WidthMM     float64 `json:"width_mm,omitempty" bson:"width_mm,omitempty"`
	HeightMM    float64 `json:"height_mm,omitempty" bson:"height_mm,omitempty"`
	ThicknessMM float64 `json:"thickness_mm,omitempty" bson:"thickness_mm,omitempty"`
	SillMM      float64 `json:"sill_mm,omitempty" bson:"sill_mm,omitempty"`
	Active      bool    `json:"active" bson:"active"`
}

// Catalog is a set of symbols. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	symbols map[Key]*Symbol
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{symbols: make(map[Key]*Symbol)}
}

// Add registers a symbol, replacing any symbol with the same key.
func (c *Catalog) Add(s Symbol) error {
	if _, err := ParseCategory(string(s.Category)); err != nil {
		return err
	}
	if s.Family == "" || s.Type == "" {
		return errors.InvalidArgument("symbol %s needs a family and a type name", s.Key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	sym := s
	c.symbols[s.Key] = &sym
	return nil
}

// Lookup returns a copy of the symbol for key, or a NOT_FOUND error.
func (c *Catalog) Lookup(key Key) (Symbol, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.symbols[key]
	if !ok {
		return Symbol{}, errors.NotFound(string(key.Category)+" type", key.Family+" : "+key.Type)
	}
	return *s, nil
}

// Find looks up a symbol by category, family and type name.
func (c *Catalog) Find(category Category, family, typeName string) (Symbol, error) {
	return c.Lookup(Key{Category: category, Family: family, Type: typeName})
}

// Activate marks the symbol as active. Placing an inactive symbol is an error
// in the host, so callers activate inside the transaction that places it.
func (c *Catalog) Activate(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.symbols[key]
	if !ok {
		return errors.NotFound(string(key.Category)+" type", key.Family+" : "+key.Type)
	}
	s.Active = true
	return nil
}

// List returns the symbols of a category (all symbols if category is empty),
// sorted by family then type.
func (c *Catalog) List(category Category) []Symbol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Symbol, 0, len(c.symbols))
	for _, s := range c.symbols {
		if category == "" || s.Category == category {
			out = append(out, *s)
		}
	}
	slices.SortFunc(out, func(a, b Symbol) int {
		return cmp.Or(
			cmp.Compare(slices.Index(Categories, a.Category), slices.Index(Categories, b.Category)),
			cmp.Compare(a.Family, b.Family),
			cmp.Compare(a.Type, b.Type),
		)
	})
	return out
}

// Len returns the number of symbols.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.symbols)
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := New()
	for k, s := range c.symbols {
		sym := *s
		out.symbols[k] = &sym
	}
	return out
}
