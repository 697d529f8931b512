// Package geom provides the small 3D vocabulary shared by the builder stages:
// points, bounded lines and axis-aligned bounding boxes.
//
// All lengths are in internal units (see package units). Values are plain
// structs and every operation returns a new value.
package geom

import "math"

// Tolerance is the default distance under which two points are considered equal.
const Tolerance = 1e-9

// Point3 is a 3D coordinate.
type Point3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// XYZ is shorthand for Point3{x, y, z}.
func XYZ(x, y, z float64) Point3 { return Point3{X: x, Y: y, Z: z} }

// Add returns p+q.
func (p Point3) Add(q Point3) Point3 { return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Sub returns p-q.
func (p Point3) Sub(q Point3) Point3 { return Point3{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// Scale returns p*k.
func (p Point3) Scale(k float64) Point3 { return Point3{p.X * k, p.Y * k, p.Z * k} }

// Dot returns the dot product of p and q.
func (p Point3) Dot(q Point3) float64 { return p.X*q.X + p.Y*q.Y + p.Z*q.Z }

// Norm returns the Euclidean length of p.
func (p Point3) Norm() float64 { return math.Sqrt(p.Dot(p)) }

// Dist returns the distance between p and q.
func (p Point3) Dist(q Point3) float64 { return p.Sub(q).Norm() }

// WithZ returns p with its Z replaced.
func (p Point3) WithZ(z float64) Point3 { return Point3{p.X, p.Y, z} }

// Near reports whether p and q are within tol of each other.
func (p Point3) Near(q Point3, tol float64) bool { return p.Dist(q) <= tol }

// Midpoint returns (a+b)/2.
func Midpoint(a, b Point3) Point3 { return a.Add(b).Scale(0.5) }

// Line is a bounded straight segment.
type Line struct {
	Start Point3 `json:"start" bson:"start"`
	End   Point3 `json:"end" bson:"end"`
}

// NewLine returns the segment from a to b.
func NewLine(a, b Point3) Line { return Line{Start: a, End: b} }

// Length returns the segment length.
func (l Line) Length() float64 { return l.Start.Dist(l.End) }

// Midpoint returns the point halfway along the segment.
func (l Line) Midpoint() Point3 { return Midpoint(l.Start, l.End) }

// Direction returns the unit vector from Start to End, or the zero vector
// for a degenerate segment.
func (l Line) Direction() Point3 {
	d := l.End.Sub(l.Start)
	n := d.Norm()
	if n == 0 {
		return Point3{}
	}
	return d.Scale(1 / n)
}

// Evaluate returns the point at parameter t, where 0 is Start and 1 is End.
func (l Line) Evaluate(t float64) Point3 {
	return l.Start.Add(l.End.Sub(l.Start).Scale(t))
}

// Parameter projects p onto the segment's carrier line and returns its
// parameter together with the distance between p and the projection.
func (l Line) Parameter(p Point3) (t, dist float64) {
	d := l.End.Sub(l.Start)
	den := d.Dot(d)
	if den == 0 {
		return 0, p.Dist(l.Start)
	}
	t = p.Sub(l.Start).Dot(d) / den
	return t, p.Dist(l.Evaluate(t))
}

// Contains reports whether p lies on the segment within tol.
func (l Line) Contains(p Point3, tol float64) bool {
	t, dist := l.Parameter(p)
	if dist > tol {
		return false
	}
	eps := 0.0
	if n := l.Length(); n > 0 {
		eps = tol / n
	}
	return t >= -eps && t <= 1+eps
}

// Reversed returns the segment with its endpoints swapped.
func (l Line) Reversed() Line { return Line{Start: l.End, End: l.Start} }

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min Point3 `json:"min" bson:"min"`
	Max Point3 `json:"max" bson:"max"`
}

// BoundsOf returns the smallest box containing all points.
// It returns the zero box for no points.
func BoundsOf(pts ...Point3) BoundingBox {
	if len(pts) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min = Point3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)}
		b.Max = Point3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)}
	}
	return b
}

// Center returns (Min+Max)/2.
func (b BoundingBox) Center() Point3 { return Midpoint(b.Min, b.Max) }

// Size returns the box extents along each axis.
func (b BoundingBox) Size() Point3 { return b.Max.Sub(b.Min) }

// Contains reports whether p lies inside the box (inclusive).
func (b BoundingBox) Contains(p Point3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Union returns the smallest box containing b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundsOf(b.Min, b.Max, o.Min, o.Max)
}
