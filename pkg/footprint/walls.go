package footprint

import (
	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/geom"
)

// WallCount is the number of walls in a rectangular loop.
const WallCount = 4

// FrontWall is the index of the wall that receives the door.
const FrontWall = 0

// Footprint is the rectangular ground plan of the building, centered at the origin.
type Footprint struct {
	Width float64 `json:"width" bson:"width"` // extent along X
	Depth float64 `json:"depth" bson:"depth"` // extent along Y
}

// NewFootprint validates the dimensions and returns the footprint.
func NewFootprint(width, depth float64) (Footprint, error) {
	if !(width > 0) {
		return Footprint{}, errors.InvalidDimension("width", width)
	}
	if !(depth > 0) {
		return Footprint{}, errors.InvalidDimension("depth", depth)
	}
	return Footprint{Width: width, Depth: depth}, nil
}

// Corners returns the four corners counter-clockwise from the bottom-left.
func (f Footprint) Corners() [WallCount]geom.Point3 {
	dx, dy := f.Width/2, f.Depth/2
	return [WallCount]geom.Point3{
		geom.XYZ(-dx, -dy, 0),
		geom.XYZ(dx, -dy, 0),
		geom.XYZ(dx, dy, 0),
		geom.XYZ(-dx, dy, 0),
	}
}

// Perimeter returns 2(W+D).
func (f Footprint) Perimeter() float64 { return 2 * (f.Width + f.Depth) }

// WallSegment is one straight wall of the loop. It starts at Base and its
// height is bound to Top rather than to a fixed number.
type WallSegment struct {
	Index int         `json:"index" bson:"index"`
	Start geom.Point3 `json:"start" bson:"start"`
	End   geom.Point3 `json:"end" bson:"end"`
	Base  Level       `json:"base" bson:"base"`
	Top   Level       `json:"top" bson:"top"`
}

// Line returns the wall's location line.
func (w WallSegment) Line() geom.Line { return geom.NewLine(w.Start, w.End) }

// Length returns the wall's length.
func (w WallSegment) Length() float64 { return w.Line().Length() }

// Height returns the vertical extent from the base to the top level.
func (w WallSegment) Height() float64 { return w.Top.Elevation - w.Base.Elevation }

// Midpoint returns the wall's midpoint at the base level's elevation.
func (w WallSegment) Midpoint() geom.Point3 {
	return w.Line().Midpoint().WithZ(w.Base.Elevation)
}

// BuildWallLoop returns the four walls of a width×depth rectangle centered at
// the origin. Segment i joins corner i to corner i+1 (mod 4), walking
// counter-clockwise from (−W/2, −D/2); segment 0 is the front wall.
func BuildWallLoop(width, depth float64, base, top Level) ([]WallSegment, error) {
	fp, err := NewFootprint(width, depth)
	if err != nil {
		return nil, err
	}
	corners := fp.Corners()
	walls := make([]WallSegment, WallCount)
	for i := range walls {
		walls[i] = WallSegment{
			Index: i,
			Start: corners[i],
			End:   corners[(i+1)%WallCount],
			Base:  base,
			Top:   top,
		}
	}
	return walls, nil
}
