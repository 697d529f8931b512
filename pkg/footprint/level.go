package footprint

import "github.com/matzehuels/footprint/pkg/errors"

// Level is a named horizontal reference elevation.
type Level struct {
	Name      string  `json:"name" bson:"name"`
	Elevation float64 `json:"elevation" bson:"elevation"`
}

// ResolveLevel returns the first level whose name equals name exactly.
// Matching is case-sensitive with no normalization. A missing level is a
// NOT_FOUND error naming the requested level.
func ResolveLevel(levels []Level, name string) (Level, error) {
	for _, l := range levels {
		if l.Name == name {
			return l, nil
		}
	}
	return Level{}, errors.NotFound("level", name)
}
