// Package pipeline runs the footprint build shared by the CLI and the API.
//
// # Architecture
//
// A build has three stages:
//
//  1. Compute: resolve levels, build the wall loop, place openings and
//     profile the roof (see package footprint)
//  2. Realize (optional): apply the model to an in-memory host document in
//     scoped transactions and verify window placement
//  3. Render: produce artifacts (svg, elevation, json, dot, graph, pdf, png)
//
// Compute and Render results are cached; realization never is, since it
// creates new element IDs every time.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    WidthMM: 10000,
//	    DepthMM: 5000,
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/footprint/pkg/cache"
	"github.com/matzehuels/footprint/pkg/catalog"
	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/host"
	"github.com/matzehuels/footprint/pkg/host/memory"
	"github.com/matzehuels/footprint/pkg/model"
	"github.com/matzehuels/footprint/pkg/render"
	"github.com/matzehuels/footprint/pkg/units"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config
// =============================================================================

const (
	// DefaultWidthMM is the footprint width along X.
	DefaultWidthMM = 10000.0

	// DefaultDepthMM is the footprint depth along Y.
	DefaultDepthMM = 5000.0

	// DefaultWallThicknessMM is used when the wall type has no thickness in
	// the catalog.
	DefaultWallThicknessMM = 200.0

	// DefaultBaseLevel and DefaultTopLevel name the levels of the default template.
	DefaultBaseLevel = "Level 1"
	DefaultTopLevel  = "Level 2"

	// DefaultTopElevationMM is the elevation of DefaultTopLevel.
	DefaultTopElevationMM = 4000.0
)

// DefaultLevels returns the levels of the default template.
func DefaultLevels() []LevelOption {
	return []LevelOption{
		{Name: DefaultBaseLevel, ElevationMM: 0},
		{Name: DefaultTopLevel, ElevationMM: DefaultTopElevationMM},
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// LevelOption declares a level by name and elevation in millimeters.
type LevelOption struct {
	Name        string  `json:"name" bson:"name" toml:"name"`
	ElevationMM float64 `json:"elevation_mm" bson:"elevation_mm" toml:"elevation_mm"`
}

// Options contains all configuration for a build.
// Zero values select defaults; this struct is the API request body.
type Options struct {
	// Compute options
	WidthMM float64 `json:"width_mm,omitempty" bson:"width_mm,omitempty"`
	DepthMM float64 `json:"depth_mm,omitempty" bson:"depth_mm,omitempty"`
	// WallThicknessMM sizes the roof overhang. Zero takes the thickness of
	// Types.Wall; a positive value must agree with it.
	WallThicknessMM float64       `json:"wall_thickness_mm,omitempty" bson:"wall_thickness_mm,omitempty"`
	Rise            float64       `json:"rise,omitempty" bson:"rise,omitempty"` // internal units; zero means footprint.DefaultRise
	Levels          []LevelOption `json:"levels,omitempty" bson:"levels,omitempty"`
	BaseLevel       string        `json:"base_level,omitempty" bson:"base_level,omitempty"`
	TopLevel        string        `json:"top_level,omitempty" bson:"top_level,omitempty"`
	DoorWall        int           `json:"door_wall,omitempty" bson:"door_wall,omitempty"`
	Refresh         bool          `json:"refresh,omitempty" bson:"-"`

	// Realize options
	Types   host.Types `json:"types" bson:"types"`
	Realize bool       `json:"realize,omitempty" bson:"realize,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty" bson:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty" bson:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger      `json:"-" bson:"-"`
	Catalog *catalog.Catalog `json:"-" bson:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the computed building, with its realization when requested.
	Model model.Model

	// ModelHash is the content hash of the serialized model.
	ModelHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Document is the host document the model was realized in, or nil.
	Document *memory.Document

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Walls       int
	Openings    int
	Elements    int
	Perimeter   float64
	ComputeTime time.Duration
	RealizeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComputeHit bool // Whether the model came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLevels checks that level names are present and unique.
func ValidateLevels(levels []LevelOption) error {
	seen := make(map[string]bool, len(levels))
	for i, l := range levels {
		if l.Name == "" {
			return errors.InvalidArgument("level %d has no name", i)
		}
		if seen[l.Name] {
			return errors.InvalidArgument("duplicate level %q", l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults for the full
// pipeline. Dimensions are not checked here: non-positive values reach the
// compute stage and fail there with INVALID_DIMENSION. This method is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetComputeDefaults()
	o.SetRenderDefaults()
	if err := o.CheckWallThickness(); err != nil {
		return err
	}
	if err := ValidateLevels(o.Levels); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetComputeDefaults fills in the default template for unset compute options.
// An unset wall thickness is taken from the wall type in the catalog.
func (o *Options) SetComputeDefaults() {
	if o.WidthMM == 0 {
		o.WidthMM = DefaultWidthMM
	}
	if o.DepthMM == 0 {
		o.DepthMM = DefaultDepthMM
	}
	o.Types = withDefaultTypes(o.Types)
	if o.WallThicknessMM == 0 {
		o.WallThicknessMM = DefaultWallThicknessMM
		if t, ok := o.wallTypeThickness(); ok {
			o.WallThicknessMM = t
		}
	}
	if o.Rise == 0 {
		o.Rise = footprint.DefaultRise
	}
	if len(o.Levels) == 0 {
		o.Levels = DefaultLevels()
	}
	if o.BaseLevel == "" {
		o.BaseLevel = DefaultBaseLevel
	}
	if o.TopLevel == "" {
		o.TopLevel = DefaultTopLevel
	}
	if o.Logger == nil {
		o.Logger = discardLogger
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = render.DefaultScale
	}
	if o.Logger == nil {
		o.Logger = discardLogger
	}
}

// CheckWallThickness rejects a positive wall thickness that differs from the
// catalog thickness of the wall type. Non-positive values are left for the
// roof stage to reject, and unknown wall types for realization.
func (o *Options) CheckWallThickness() error {
	if !(o.WallThicknessMM > 0) {
		return nil
	}
	t, ok := o.wallTypeThickness()
	if !ok || math.Abs(t-o.WallThicknessMM) < thicknessTolerance {
		return nil
	}
	return errors.InvalidArgument("wall thickness %g mm does not match wall type %s (%g mm)",
		o.WallThicknessMM, o.Types.Wall, t)
}

const thicknessTolerance = 1e-6

func (o *Options) wallTypeThickness() (float64, bool) {
	sym, err := o.catalogOrDefault().Lookup(o.Types.Wall)
	if err != nil || !(sym.ThicknessMM > 0) {
		return 0, false
	}
	return sym.ThicknessMM, true
}

func (o *Options) catalogOrDefault() *catalog.Catalog {
	if o.Catalog != nil {
		return o.Catalog
	}
	return catalog.Default()
}

var discardLogger = log.NewWithOptions(io.Discard, log.Options{})

func withDefaultTypes(t host.Types) host.Types {
	d := host.DefaultTypes()
	if t.Wall == (catalog.Key{}) {
		t.Wall = d.Wall
	}
	if t.Door == (catalog.Key{}) {
		t.Door = d.Door
	}
	if t.Window == (catalog.Key{}) {
		t.Window = d.Window
	}
	if t.Roof == (catalog.Key{}) {
		t.Roof = d.Roof
	}
	return t
}

// HostLevels converts the level options to internal units.
func (o *Options) HostLevels() []footprint.Level {
	levels := make([]footprint.Level, len(o.Levels))
	for i, l := range o.Levels {
		levels[i] = footprint.Level{Name: l.Name, Elevation: units.MM(l.ElevationMM)}
	}
	return levels
}

// Spec converts the options to a footprint build specification.
func (o *Options) Spec() footprint.Spec {
	return footprint.Spec{
		Width:         units.MM(o.WidthMM),
		Depth:         units.MM(o.DepthMM),
		WallThickness: units.MM(o.WallThicknessMM),
		Rise:          o.Rise,
		Levels:        o.HostLevels(),
		BaseLevel:     o.BaseLevel,
		TopLevel:      o.TopLevel,
		DoorWall:      o.DoorWall,
	}
}

// ModelKeyOpts returns cache key options for the compute stage.
func (o *Options) ModelKeyOpts() cache.ModelKeyOpts {
	levels := make(map[string]float64, len(o.Levels))
	for _, l := range o.Levels {
		levels[l.Name] = l.ElevationMM
	}
	return cache.ModelKeyOpts{
		WidthMM:         o.WidthMM,
		DepthMM:         o.DepthMM,
		WallThicknessMM: o.WallThicknessMM,
		Rise:            o.Rise,
		BaseLevel:       o.BaseLevel,
		TopLevel:        o.TopLevel,
		Levels:          levels,
		DoorWall:        o.DoorWall,
		Types:           []string{o.Types.Wall.String(), o.Types.Door.String(), o.Types.Window.String(), o.Types.Roof.String()},
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format of a
// model realized with types. Renderers size openings from the catalog, so the
// key covers the symbols of those types.
func (o *Options) ArtifactKeyOpts(format string, types host.Types) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Scale: o.Scale, Symbols: o.SymbolsHash(types)}
}

// SymbolsHash hashes the catalog symbols of types. Missing types hash as
// their bare keys; activation state is ignored.
func (o *Options) SymbolsHash(types host.Types) string {
	cat := o.catalogOrDefault()
	keys := []catalog.Key{types.Wall, types.Door, types.Window, types.Roof}
	symbols := make([]catalog.Symbol, len(keys))
	for i, k := range keys {
		sym, err := cat.Lookup(k)
		if err != nil {
			sym = catalog.Symbol{Key: k}
		}
		sym.Active = false
		symbols[i] = sym
	}
	data, _ := json.Marshal(symbols)
	return cache.Hash(data)
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}
