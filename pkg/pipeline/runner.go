package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/footprint/pkg/cache"
	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/host"
	"github.com/matzehuels/footprint/pkg/host/memory"
	"github.com/matzehuels/footprint/pkg/model"
	"github.com/matzehuels/footprint/pkg/observability"
	"github.com/matzehuels/footprint/pkg/render"
	"github.com/matzehuels/footprint/pkg/units"
)

// Stage names reported to observability hooks. The geometry stages are the
// ones footprint.Build runs.
const (
	StageLevels   = footprint.StageLevels
	StageWalls    = footprint.StageWalls
	StageOpenings = footprint.StageOpenings
	StageRoof     = footprint.StageRoof
	StageRealize  = "realize"
	StageRender   = "render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner holds no build state; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLModel and cache.TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs compute, the optional realization, and render.
// Any failure aborts the run; a failed realization leaves nothing in the
// document and produces no artifacts.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Compute
	computeStart := time.Now()
	m, hit, err := r.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	b := m.Building
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.Walls = len(b.Walls)
	result.Stats.Openings = 1 + len(b.Windows)
	result.Stats.Perimeter = b.Footprint.Perimeter()
	result.CacheInfo.ComputeHit = hit

	opts.Logger.Info("computed building",
		"walls", result.Stats.Walls,
		"openings", result.Stats.Openings,
		"perimeter", units.Format(result.Stats.Perimeter, units.Millimeters),
		"cached", hit,
		"duration", result.Stats.ComputeTime)

	// Stage 2: Realize
	if opts.Realize {
		realizeStart := time.Now()
		doc, realization, err := r.Realize(ctx, m, opts)
		if err != nil {
			return nil, fmt.Errorf("realize: %w", err)
		}
		m.Realization = &realization
		result.Document = doc
		result.Stats.Elements = realization.Count()
		result.Stats.RealizeTime = time.Since(realizeStart)

		opts.Logger.Info("realized building",
			"elements", result.Stats.Elements,
			"transactions", len(doc.History()),
			"duration", result.Stats.RealizeTime)
	}
	result.Model = m

	data, err := model.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("serialize model: %w", err)
	}
	result.ModelHash = cache.Hash(data)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, m, result.ModelHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeWithCacheInfo computes the building model with caching and reports
// whether it came from the cache.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, opts Options) (model.Model, bool, error) {
	r.applyLogger(&opts)
	opts.SetComputeDefaults()
	if err := opts.CheckWallThickness(); err != nil {
		return model.Model{}, false, err
	}

	cacheKey := r.Keyer.ModelKey(opts.ModelKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if m, err := model.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "model")
				return m, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "model")
	}

	b, err := r.compute(ctx, opts)
	if err != nil {
		return model.Model{}, false, err
	}
	m := model.New(b, opts.Types)

	if data, err := model.Marshal(m); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLModel)); err == nil {
			observability.Cache().OnCacheSet(ctx, "model", len(data))
		} else {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		}
	}
	return m, false, nil
}

// Compute is a convenience wrapper that discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, opts Options) (model.Model, error) {
	m, _, err := r.ComputeWithCacheInfo(ctx, opts)
	return m, err
}

// compute runs footprint.Build with every stage reported to the pipeline
// hooks and checked for cancellation.
func (r *Runner) compute(ctx context.Context, opts Options) (footprint.Building, error) {
	b, err := footprint.Build(opts.Spec(), footprint.WithStageFunc(func(name string, run func() error) error {
		return r.stage(ctx, name, run)
	}))
	if err != nil {
		return footprint.Building{}, err
	}
	opts.Logger.Debug("built footprint",
		"base", b.Base.Name,
		"top", b.Top.Name,
		"height", units.Format(b.Walls[0].Height(), units.Millimeters),
		"door_wall", b.Door.WallIndex,
		"windows", len(b.Windows),
		"roof_span", units.Format(b.Roof.Span(), units.Millimeters),
		"pitch", b.Roof.Pitch())
	return b, nil
}

// Realize applies m to a fresh in-memory document holding the option levels
// and a copy of the catalog, then verifies that every window sits at the
// center of its wall's bounding box.
func (r *Runner) Realize(ctx context.Context, m model.Model, opts Options) (*memory.Document, host.Realization, error) {
	r.applyLogger(&opts)
	opts.SetComputeDefaults()

	doc := memory.NewDocument(opts.HostLevels(), opts.catalogOrDefault().Clone())

	var realization host.Realization
	err := r.stage(ctx, StageRealize, func() (err error) {
		if realization, err = host.Realize(ctx, doc, m.Building, m.Types); err != nil {
			return err
		}
		return host.VerifyOpenings(doc, realization, m.Building, units.MM(1))
	})
	if err != nil {
		return nil, host.Realization{}, err
	}
	return doc, realization, nil
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts of the same model hash. The hit flag is true only when every
// format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m model.Model, modelHash string, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	types := m.Types

	err := r.stage(ctx, StageRender, func() error {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(modelHash, opts.ArtifactKeyOpts(format, types))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false

			data, err := render.Render(ctx, m, format, render.WithScale(opts.Scale), render.WithCatalog(opts.Catalog))
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			artifacts[format] = data
			if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that hashes m and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, m model.Model, opts Options) (map[string][]byte, error) {
	data, err := model.Marshal(m)
	if err != nil {
		return nil, err
	}
	artifacts, _, err := r.RenderWithCacheInfo(ctx, m, cache.Hash(data), opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// stage runs fn between pipeline start and complete hooks.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, name)
	err := fn()
	observability.Pipeline().OnStageComplete(ctx, name, time.Since(start), err)
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
