package footprint

import (
	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/geom"
)

// OpeningKind distinguishes doors from windows.
type OpeningKind string

// Opening kinds.
const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// OpeningPlacement is an insertion point on a hosting wall.
type OpeningPlacement struct {
	Kind      OpeningKind `json:"kind" bson:"kind"`
	WallIndex int         `json:"wall_index" bson:"wall_index"`
	Point     geom.Point3 `json:"point" bson:"point"`
}

// PlaceDoor returns the door insertion point: the wall's midpoint at the base
// level's elevation. Sill or head offsets belong to the door type, not here.
func PlaceDoor(wall WallSegment) geom.Point3 {
	return wall.Midpoint()
}

// PlaceWindows returns the center of every wall except excludingIndex, in loop
// order. For a straight wall the center of its bounding extent coincides with
// its midpoint, which is what is returned.
func PlaceWindows(walls []WallSegment, excludingIndex int) ([]geom.Point3, error) {
	if len(walls) < 2 {
		return nil, errors.InvalidArgument("wall loop needs at least 2 segments, got %d", len(walls))
	}
	if excludingIndex < 0 || excludingIndex >= len(walls) {
		return nil, errors.InvalidArgument("excluded wall index %d outside loop of %d", excludingIndex, len(walls))
	}
	pts := make([]geom.Point3, 0, len(walls)-1)
	for i, w := range walls {
		if i == excludingIndex {
			continue
		}
		pts = append(pts, w.Midpoint())
	}
	return pts, nil
}

// PlaceOpenings places the door on walls[doorIndex] and a window on every
// other wall, returning placements tagged with their hosting wall.
func PlaceOpenings(walls []WallSegment, doorIndex int) (OpeningPlacement, []OpeningPlacement, error) {
	pts, err := PlaceWindows(walls, doorIndex)
	if err != nil {
		return OpeningPlacement{}, nil, err
	}
	door := OpeningPlacement{
		Kind:      OpeningDoor,
		WallIndex: walls[doorIndex].Index,
		Point:     PlaceDoor(walls[doorIndex]),
	}
	windows := make([]OpeningPlacement, 0, len(pts))
	j := 0
	for i, w := range walls {
		if i == doorIndex {
			continue
		}
		windows = append(windows, OpeningPlacement{Kind: OpeningWindow, WallIndex: w.Index, Point: pts[j]})
		j++
	}
	return door, windows, nil
}
