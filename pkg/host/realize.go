package host

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/footprint/pkg/catalog"
	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/observability"
)

// Transaction names used by [Realize].
const (
	TxBuild   = "Build model"
	TxWalls   = "Create walls"
	TxDoor    = "Create door"
	TxWindows = "Create windows"
	TxRoof    = "Create roof"
)

// Types selects the family types a building is realized with.
type Types struct {
	Wall   catalog.Key `json:"wall" bson:"wall"`
	Door   catalog.Key `json:"door" bson:"door"`
	Window catalog.Key `json:"window" bson:"window"`
	Roof   catalog.Key `json:"roof" bson:"roof"`
}

// DefaultTypes returns the catalog defaults.
func DefaultTypes() Types {
	return Types{
		Wall:   catalog.DefaultWall,
		Door:   catalog.DefaultDoor,
		Window: catalog.DefaultWindow,
		Roof:   catalog.DefaultRoof,
	}
}

// Realization records the elements created for a building.
type Realization struct {
	Walls   []ElementID `json:"walls" bson:"walls"`
	Door    ElementID   `json:"door" bson:"door"`
	Windows []ElementID `json:"windows" bson:"windows"`
	Roof    ElementID   `json:"roof" bson:"roof"`
}

// Count returns the number of realized elements.
func (r Realization) Count() int {
	n := len(r.Walls) + len(r.Windows)
	if r.Door != "" {
		n++
	}
	if r.Roof != "" {
		n++
	}
	return n
}

// Realize creates the building in doc: walls bound to the top level, the door
// on its wall, a window on every other wall and the extrusion roof. Each step
// runs in its own transaction and all four run in one group, so on failure
// nothing is left in the document.
//
// Every type is looked up before the first transaction starts.
func Realize(ctx context.Context, doc Document, b footprint.Building, types Types) (Realization, error) {
	start := time.Now()
	observability.Host().OnRealizeStart(ctx, len(b.Walls))

	r, err := realize(ctx, doc, b, types)
	observability.Host().OnRealizeComplete(ctx, r.Count(), time.Since(start), err)
	if err != nil {
		return Realization{}, err
	}
	return r, nil
}

func realize(ctx context.Context, doc Document, b footprint.Building, types Types) (Realization, error) {
	cat := doc.Catalog()
	for _, k := range []catalog.Key{types.Wall, types.Door, types.Window, types.Roof} {
		if _, err := cat.Lookup(k); err != nil {
			return Realization{}, err
		}
	}
	if b.Door.WallIndex < 0 || b.Door.WallIndex >= len(b.Walls) {
		return Realization{}, errors.InvalidArgument("door wall %d outside loop of %d", b.Door.WallIndex, len(b.Walls))
	}

	var r Realization
	err := InGroup(ctx, doc, TxBuild, func() error {
		if err := InTransaction(ctx, doc, TxWalls, func() error {
			for _, w := range b.Walls {
				id, err := doc.CreateWall(w.Line(), w.Base, types.Wall)
				if err != nil {
					return fmt.Errorf("wall %d: %w", w.Index, err)
				}
				if err := doc.SetWallTop(id, w.Top); err != nil {
					return fmt.Errorf("wall %d: %w", w.Index, err)
				}
				r.Walls = append(r.Walls, id)
			}
			return nil
		}); err != nil {
			return err
		}

		if err := InTransaction(ctx, doc, TxDoor, func() error {
			if err := activate(doc, types.Door); err != nil {
				return err
			}
			id, err := doc.PlaceInstance(b.Door.Point, types.Door, r.Walls[b.Door.WallIndex], b.Base)
			r.Door = id
			return err
		}); err != nil {
			return err
		}

		if err := InTransaction(ctx, doc, TxWindows, func() error {
			if err := activate(doc, types.Window); err != nil {
				return err
			}
			for _, w := range b.Windows {
				if w.WallIndex < 0 || w.WallIndex >= len(r.Walls) {
					return errors.InvalidArgument("window wall %d outside loop of %d", w.WallIndex, len(r.Walls))
				}
				id, err := doc.PlaceInstance(w.Point, types.Window, r.Walls[w.WallIndex], b.Base)
				if err != nil {
					return fmt.Errorf("window on wall %d: %w", w.WallIndex, err)
				}
				r.Windows = append(r.Windows, id)
			}
			return nil
		}); err != nil {
			return err
		}

		return InTransaction(ctx, doc, TxRoof, func() error {
			id, err := doc.CreateExtrusionRoof(b.Roof, b.Top, types.Roof)
			r.Roof = id
			return err
		})
	})
	if err != nil {
		return Realization{}, err
	}
	return r, nil
}

func activate(doc Document, key catalog.Key) error {
	sym, err := doc.Catalog().Lookup(key)
	if err != nil {
		return err
	}
	if !sym.Active {
		return doc.Catalog().Activate(key)
	}
	return nil
}

// VerifyOpenings checks that every window of b lies, in plan, at the center of
// its realized host wall's bounding box, within tol. Window points are wall
// midpoints, which equal the bounding-box center only for straight walls of
// uniform thickness.
func VerifyOpenings(doc Document, r Realization, b footprint.Building, tol float64) error {
	if len(r.Windows) != len(b.Windows) {
		return errors.InvalidArgument("realized %d windows for %d placements", len(r.Windows), len(b.Windows))
	}
	for i, w := range b.Windows {
		if w.WallIndex < 0 || w.WallIndex >= len(r.Walls) {
			return errors.InvalidArgument("window %d references wall %d outside loop", i, w.WallIndex)
		}
		wall, err := doc.Element(r.Walls[w.WallIndex])
		if err != nil {
			return err
		}
		c := wall.Bounds.Center()
		if d := math.Hypot(c.X-w.Point.X, c.Y-w.Point.Y); d > tol {
			return errors.InvalidArgument("window %d is %.6g from the center of wall %d", i, d, w.WallIndex)
		}
	}
	return nil
}
