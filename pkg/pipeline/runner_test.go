package pipeline

import (
	"bytes"
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/footprint/pkg/cache"
	"github.com/matzehuels/footprint/pkg/catalog"
	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/host"
	"github.com/matzehuels/footprint/pkg/observability"
	"github.com/matzehuels/footprint/pkg/units"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner should fill defaults: %+v", r)
	}
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{Formats: []string{"svg", "json", "dot"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Walls != 4 || res.Stats.Openings != 4 {
		t.Errorf("stats = %+v", res.Stats)
	}
	for _, f := range []string{"svg", "json", "dot"} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if res.CacheInfo.ComputeHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss the cache: %+v", res.CacheInfo)
	}
	if res.Document != nil || res.Model.Realization != nil {
		t.Error("realization should be off by default")
	}
	if len(res.ModelHash) != 64 {
		t.Errorf("ModelHash = %q", res.ModelHash)
	}

	again, err := r.Execute(ctx, Options{Formats: []string{"svg", "json", "dot"}})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.ComputeHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit the cache: %+v", again.CacheInfo)
	}
	if again.ModelHash != res.ModelHash {
		t.Error("cached model should hash the same")
	}

	fresh, err := r.Execute(ctx, Options{Formats: []string{"svg"}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.ComputeHit {
		t.Error("Refresh should bypass the model cache")
	}
}

func TestExecuteRealize(t *testing.T) {
	r := newTestRunner(t)

	res, err := r.Execute(context.Background(), Options{Realize: true, Formats: []string{"json"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Document == nil || res.Model.Realization == nil {
		t.Fatal("realization missing")
	}
	if got := res.Model.Realization.Count(); got != 9 {
		t.Errorf("realized %d elements, want 9", got)
	}
	if got := len(res.Document.Elements()); got != 9 {
		t.Errorf("document holds %d elements, want 9", got)
	}
	want := []string{host.TxWalls, host.TxDoor, host.TxWindows, host.TxRoof}
	if got := res.Document.History(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("history = %v, want %v", got, want)
	}
	if !strings.Contains(string(res.Artifacts["json"]), `"realization"`) {
		t.Error("json artifact should include the realization")
	}
}

func TestExecuteRealizeMissingType(t *testing.T) {
	r := newTestRunner(t)
	opts := Options{
		Realize: true,
		Types:   host.Types{Window: catalog.Key{Category: catalog.Windows, Family: "M_Skylight", Type: "none"}},
	}
	res, err := r.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if res != nil {
		t.Error("failed run should return no result")
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown base level", Options{BaseLevel: "Level 3"}, errors.ErrCodeNotFound},
		{"case-sensitive level", Options{TopLevel: "level 2"}, errors.ErrCodeNotFound},
		{"negative width", Options{WidthMM: -1}, errors.ErrCodeInvalidDimension},
		{"negative depth", Options{DepthMM: -5000}, errors.ErrCodeInvalidDimension},
		{"negative thickness", Options{WallThicknessMM: -200}, errors.ErrCodeInvalidDimension},
		{"negative rise", Options{Rise: -3}, errors.ErrCodeInvalidDimension},
		{"door wall outside loop", Options{DoorWall: 4}, errors.ErrCodeInvalidArgument},
		{"unknown format", Options{Formats: []string{"dwg"}}, errors.ErrCodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil, nil).Execute(context.Background(), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRunner(nil, nil, nil).Execute(ctx, Options{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRealizeUsesCatalogCopy(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	opts := Options{Catalog: catalog.Default()}

	m, err := r.Compute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	doc, _, err := r.Realize(ctx, m, opts)
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	sym, err := opts.Catalog.Lookup(catalog.DefaultDoor)
	if err != nil {
		t.Fatal(err)
	}
	if sym.Active {
		t.Error("activation should not leak into the caller's catalog")
	}
	if sym, _ := doc.Catalog().Lookup(catalog.DefaultDoor); !sym.Active {
		t.Error("door symbol should be active in the document")
	}
}

func TestRenderWrapper(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	m, err := r.Compute(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := r.Render(ctx, m, Options{Formats: []string{"elevation"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(artifacts["elevation"]), "<svg") {
		t.Error("elevation artifact should be SVG")
	}
}

func TestStageHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	rec := &stageRecorder{}
	observability.SetPipelineHooks(rec)

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Realize: true}); err != nil {
		t.Fatal(err)
	}
	want := []string{StageLevels, StageWalls, StageOpenings, StageRoof, StageRealize, StageRender}
	if got := strings.Join(rec.completed, ","); got != strings.Join(want, ",") {
		t.Errorf("stages = %s, want %s", got, strings.Join(want, ","))
	}
}

type stageRecorder struct {
	mu        sync.Mutex
	completed []string
}

func (s *stageRecorder) OnStageStart(context.Context, string) {}

func (s *stageRecorder) OnStageComplete(_ context.Context, stage string, _ time.Duration, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, stage)
}

var wall300 = catalog.Key{Category: catalog.Walls, Family: "Basic Wall", Type: "Generic - 300mm"}

func TestExecuteRoofFollowsWallType(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Realize: true,
		Types:   host.Types{Wall: wall300},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	roof := res.Model.Building.Roof
	if got, want := roof.ExtrusionEnd, units.MM(5150); math.Abs(got-want) > 1e-9 {
		t.Errorf("roof extrusion end = %s, want %s",
			units.Format(got, units.Millimeters), units.Format(want, units.Millimeters))
	}
	if got, want := roof.CurveEnd, units.MM(2650); math.Abs(got-want) > 1e-9 {
		t.Errorf("roof curve end = %s, want %s",
			units.Format(got, units.Millimeters), units.Format(want, units.Millimeters))
	}
}

func TestExecuteWallThicknessMustMatchType(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{WallThicknessMM: 300, Types: host.Types{Wall: wall300}}); err != nil {
		t.Errorf("matching thickness: %v", err)
	}
	_, err := r.Execute(ctx, Options{WallThicknessMM: 250, Types: host.Types{Wall: wall300}})
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("err = %v, want INVALID_ARGUMENT", err)
	}
	_, err = r.Compute(ctx, Options{WallThicknessMM: 300})
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Compute with 300 mm on the 200 mm default wall: err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestRenderCacheTracksCatalog(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	opts := func(cat *catalog.Catalog) Options {
		return Options{Formats: []string{"elevation"}, Catalog: cat}
	}

	first, err := r.Execute(ctx, opts(catalog.Default()))
	if err != nil {
		t.Fatal(err)
	}

	resized := catalog.Default()
	if err := resized.Add(catalog.Symbol{Key: catalog.DefaultDoor, WidthMM: 2000, HeightMM: 3000}); err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, opts(resized))
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ComputeHit {
		t.Error("geometry does not depend on door sizes; model should come from cache")
	}
	if second.CacheInfo.RenderHit {
		t.Error("a resized door must not reuse the cached elevation")
	}
	if bytes.Equal(first.Artifacts["elevation"], second.Artifacts["elevation"]) {
		t.Error("elevation should change with the door size")
	}

	third, err := r.Execute(ctx, opts(resized))
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.RenderHit {
		t.Error("same catalog should hit the artifact cache")
	}
	if !bytes.Equal(second.Artifacts["elevation"], third.Artifacts["elevation"]) {
		t.Error("cached elevation differs from the rendered one")
	}
}
