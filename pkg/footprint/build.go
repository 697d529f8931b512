package footprint

import "fmt"

// Spec is the complete input of a build, in internal units.
type Spec struct {
	Width         float64
	Depth         float64
	WallThickness float64
	Rise          float64 // zero means DefaultRise
	Levels        []Level
	BaseLevel     string
	TopLevel      string
	DoorWall      int
}

// Building is the complete layout produced by [Build].
type Building struct {
	Footprint Footprint          `json:"footprint" bson:"footprint"`
	Base      Level              `json:"base" bson:"base"`
	Top       Level              `json:"top" bson:"top"`
	Walls     []WallSegment      `json:"walls" bson:"walls"`
	Door      OpeningPlacement   `json:"door" bson:"door"`
	Windows   []OpeningPlacement `json:"windows" bson:"windows"`
	Roof      RoofProfile        `json:"roof" bson:"roof"`
}

// Stages of [Build], in execution order.
const (
	StageLevels   = "levels"
	StageWalls    = "walls"
	StageOpenings = "openings"
	StageRoof     = "roof"
)

// StageFunc wraps one stage of [Build]. It either calls run and returns its
// error, or returns an error of its own without calling run. Any error aborts
// the build and is returned unchanged.
type StageFunc func(name string, run func() error) error

// BuildOption configures [Build].
type BuildOption func(*buildConfig)

type buildConfig struct {
	stage StageFunc
}

// WithStageFunc runs every stage of the build through fn.
func WithStageFunc(fn StageFunc) BuildOption {
	return func(c *buildConfig) {
		if fn != nil {
			c.stage = fn
		}
	}
}

func runStage(_ string, run func() error) error { return run() }

// Build runs level resolution, the wall loop, opening placement and the roof
// profile in order. Each stage reads only the outputs of earlier ones, and the
// first failing stage aborts the build.
func Build(s Spec, opts ...BuildOption) (Building, error) {
	cfg := buildConfig{stage: runStage}
	for _, opt := range opts {
		opt(&cfg)
	}

	var base, top Level
	err := cfg.stage(StageLevels, func() (err error) {
		if base, err = ResolveLevel(s.Levels, s.BaseLevel); err != nil {
			return fmt.Errorf("base level: %w", err)
		}
		if top, err = ResolveLevel(s.Levels, s.TopLevel); err != nil {
			return fmt.Errorf("top level: %w", err)
		}
		return nil
	})
	if err != nil {
		return Building{}, err
	}

	var walls []WallSegment
	err = cfg.stage(StageWalls, func() (err error) {
		if walls, err = BuildWallLoop(s.Width, s.Depth, base, top); err != nil {
			return fmt.Errorf("walls: %w", err)
		}
		return nil
	})
	if err != nil {
		return Building{}, err
	}

	var door OpeningPlacement
	var windows []OpeningPlacement
	err = cfg.stage(StageOpenings, func() (err error) {
		if door, windows, err = PlaceOpenings(walls, s.DoorWall); err != nil {
			return fmt.Errorf("openings: %w", err)
		}
		return nil
	})
	if err != nil {
		return Building{}, err
	}

	var roofOpts []RoofOption
	if s.Rise != 0 {
		roofOpts = append(roofOpts, WithRise(s.Rise))
	}
	var roof RoofProfile
	err = cfg.stage(StageRoof, func() (err error) {
		if roof, err = BuildRoofProfile(s.Width, s.Depth, s.WallThickness, top, roofOpts...); err != nil {
			return fmt.Errorf("roof: %w", err)
		}
		return nil
	})
	if err != nil {
		return Building{}, err
	}

	return Building{
		Footprint: Footprint{Width: s.Width, Depth: s.Depth},
		Base:      base,
		Top:       top,
		Walls:     walls,
		Door:      door,
		Windows:   windows,
		Roof:      roof,
	}, nil
}
