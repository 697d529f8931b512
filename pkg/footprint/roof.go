package footprint

import (
	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/geom"
)

// DefaultRise is the ridge height above the top level, in internal units.
const DefaultRise = 10.0

// RoofProfile is a gable cross-section in the plane x=0, extruded along X.
//
// The two segments share the ridge point; the extrusion span covers the
// footprint width plus half a wall thickness at each end.
type RoofProfile struct {
	Segments       [2]geom.Line `json:"segments" bson:"segments"`
	Ridge          geom.Point3  `json:"ridge" bson:"ridge"`
	CurveStart     float64      `json:"curve_start" bson:"curve_start"`
	CurveEnd       float64      `json:"curve_end" bson:"curve_end"`
	ExtrusionStart float64      `json:"extrusion_start" bson:"extrusion_start"`
	ExtrusionEnd   float64      `json:"extrusion_end" bson:"extrusion_end"`
	Rise           float64      `json:"rise" bson:"rise"`
	Level          Level        `json:"level" bson:"level"`
}

// Span returns the extrusion length.
func (r RoofProfile) Span() float64 { return r.ExtrusionEnd - r.ExtrusionStart }

// Pitch returns the slope of each roof plane (rise over half run).
func (r RoofProfile) Pitch() float64 {
	run := (r.CurveEnd - r.CurveStart) / 2
	if run == 0 {
		return 0
	}
	return r.Rise / run
}

// RoofOption configures [BuildRoofProfile].
type RoofOption func(*roofConfig)

type roofConfig struct {
	rise float64
}

// WithRise overrides [DefaultRise].
func WithRise(rise float64) RoofOption { return func(c *roofConfig) { c.rise = rise } }

// BuildRoofProfile computes the gable profile for a width×depth footprint
// with walls of the given thickness, sitting on the top level.
func BuildRoofProfile(width, depth, wallThickness float64, top Level, opts ...RoofOption) (RoofProfile, error) {
	cfg := roofConfig{rise: DefaultRise}
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, err := NewFootprint(width, depth); err != nil {
		return RoofProfile{}, err
	}
	if !(wallThickness > 0) {
		return RoofProfile{}, errors.InvalidDimension("wall thickness", wallThickness)
	}
	if !(cfg.rise > 0) {
		return RoofProfile{}, errors.InvalidDimension("roof rise", cfg.rise)
	}

	dt := wallThickness / 2
	z := top.Elevation
	curveStart := -depth/2 - dt
	curveEnd := depth/2 + dt
	ridge := geom.XYZ(0, 0, z+cfg.rise)

	return RoofProfile{
		Segments: [2]geom.Line{
			geom.NewLine(geom.XYZ(0, curveStart, z), ridge),
			geom.NewLine(ridge, geom.XYZ(0, curveEnd, z)),
		},
		Ridge:          ridge,
		CurveStart:     curveStart,
		CurveEnd:       curveEnd,
		ExtrusionStart: -width/2 - dt,
		ExtrusionEnd:   width/2 + dt,
		Rise:           cfg.rise,
		Level:          top,
	}, nil
}
