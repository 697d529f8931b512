package catalog

// Default type names, as shipped with the metric template of the host.
var (
	DefaultWall   = Key{Category: Walls, Family: "Basic Wall", Type: "Generic - 200mm"}
	DefaultDoor   = Key{Category: Doors, Family: "M_Single-Flush", Type: "0762 x 2134mm"}
	DefaultWindow = Key{Category: Windows, Family: "M_Window-Double-Hung", Type: "700 x 1200mm"}
	DefaultRoof   = Key{Category: Roofs, Family: "Basic Roof", Type: "Generic - 400mm"}
)

// Default returns a catalog with the types used by a default build plus a few
// common alternatives. Door and window symbols start inactive.
func Default() *Catalog {
	c := New()
	for _, s := range []Symbol{
		{Key: DefaultWall, ThicknessMM: 200, Active: true},
		{Key: Key{Category: Walls, Family: "Basic Wall", Type: "Generic - 300mm"}, ThicknessMM: 300, Active: true},
		{Key: DefaultDoor, WidthMM: 762, HeightMM: 2134},
		{Key: Key{Category: Doors, Family: "M_Single-Flush", Type: "0915 x 2134mm"}, WidthMM: 915, HeightMM: 2134},
		{Key: Key{Category: Doors, Family: "M_Double-Flush", Type: "1730 x 2134mm"}, WidthMM: 1730, HeightMM: 2134},
		{Key: DefaultWindow, WidthMM: 700, HeightMM: 1200, SillMM: 915},
		{Key: Key{Category: Windows, Family: "M_Window-Double-Hung", Type: "900 x 1500mm"}, WidthMM: 900, HeightMM: 1500, SillMM: 800},
		{Key: Key{Category: Windows, Family: "M_Fixed", Type: "0915 x 1220mm"}, WidthMM: 915, HeightMM: 1220, SillMM: 915},
		{Key: DefaultRoof, ThicknessMM: 400, Active: true},
		{Key: Key{Category: Roofs, Family: "Basic Roof", Type: "Generic - 125mm"}, ThicknessMM: 125, Active: true},
	} {
		_ = c.Add(s)
	}
	return c
}
