package catalog

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/footprint/pkg/errors"
)

type file struct {
	Symbols []fileSymbol `toml:"symbol"`
}

type fileSymbol struct {
	Category    string  `toml:"category"`
	Family      string  `toml:"family"`
	Type        string  `toml:"type"`
	WidthMM     float64 `toml:"width_mm"`
	HeightMM    float64 `toml:"height_mm"`
	ThicknessMM float64 `toml:"thickness_mm"`
	SillMM      float64 `toml:"sill_mm"`
	Active      bool    `toml:"active"`
}

// Decode reads a TOML catalog from r.
func Decode(r io.Reader) (*Catalog, error) {
	var f file
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode catalog")
	}
	c := New()
	for i, s := range f.Symbols {
		sym := Symbol{
			Key:         Key{Category: Category(s.Category), Family: s.Family, Type: s.Type},
			WidthMM:     s.WidthMM,
			HeightMM:    s.HeightMM,
			ThicknessMM: s.ThicknessMM,
			SillMM:      s.SillMM,
			Active:      s.Active,
		}
		if err := c.Add(sym); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "symbol %d", i)
		}
	}
	return c, nil
}

// Load reads a TOML catalog file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open catalog %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the catalog as TOML.
func (c *Catalog) Encode(w io.Writer) error {
	var f file
	for _, s := range c.List("") {
		f.Symbols = append(f.Symbols, fileSymbol{
			Category:    string(s.Category),
			Family:      s.Family,
			Type:        s.Type,
			WidthMM:     s.WidthMM,
			HeightMM:    s.HeightMM,
			ThicknessMM: s.ThicknessMM,
			SillMM:      s.SillMM,
			Active:      s.Active,
		})
	}
	return toml.NewEncoder(w).Encode(f)
}
