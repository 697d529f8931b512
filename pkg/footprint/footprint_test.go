package footprint

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/geom"
	"github.com/matzehuels/footprint/pkg/units"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

var (
	level1 = Level{Name: "Level 1", Elevation: 0}
	level2 = Level{Name: "Level 2", Elevation: units.MM(4000)}
)

// dims returns a deterministic spread of positive width/depth pairs.
func dims() [][2]float64 {
	out := [][2]float64{{1, 1}, {10, 5}, {5, 10}, {0.01, 300}, {units.MM(10000), units.MM(5000)}}
	r := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		out = append(out, [2]float64{0.1 + r.Float64()*100, 0.1 + r.Float64()*100})
	}
	return out
}

func TestResolveLevel(t *testing.T) {
	levels := []Level{level1, level2}

	got, err := ResolveLevel(levels, "Level 1")
	if err != nil {
		t.Fatalf("ResolveLevel error: %v", err)
	}
	if got != level1 {
		t.Errorf("ResolveLevel = %+v, want %+v", got, level1)
	}

	_, err = ResolveLevel(levels, "Level 3")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if msg := errors.UserMessage(err); msg != `level "Level 3" not found` {
		t.Errorf("message = %q", msg)
	}
}

func TestResolveLevelExactMatch(t *testing.T) {
	levels := []Level{{Name: "level 1"}, {Name: "Level 1 "}, {Name: "Level 1", Elevation: 7}, {Name: "Level 1", Elevation: 9}}

	got, err := ResolveLevel(levels, "Level 1")
	if err != nil {
		t.Fatalf("ResolveLevel error: %v", err)
	}
	if got.Elevation != 7 {
		t.Errorf("expected first exact match (elevation 7), got %v", got.Elevation)
	}
	if _, err := ResolveLevel(nil, "Level 1"); err == nil {
		t.Error("empty level list should fail")
	}
}

func TestBuildWallLoopClosed(t *testing.T) {
	for _, d := range dims() {
		w, dp := d[0], d[1]
		walls, err := BuildWallLoop(w, dp, level1, level2)
		if err != nil {
			t.Fatalf("BuildWallLoop(%v, %v) error: %v", w, dp, err)
		}
		if len(walls) != 4 {
			t.Fatalf("got %d walls, want 4", len(walls))
		}
		perimeter := 0.0
		for i, wall := range walls {
			next := walls[(i+1)%len(walls)]
			if !wall.End.Near(next.Start, 1e-12) {
				t.Errorf("wall %d end %+v does not meet wall %d start %+v", i, wall.End, next.Index, next.Start)
			}
			if wall.Index != i {
				t.Errorf("wall %d has index %d", i, wall.Index)
			}
			perimeter += wall.Length()
		}
		if !walls[3].End.Near(walls[0].Start, 0) {
			t.Errorf("loop not closed: %+v != %+v", walls[3].End, walls[0].Start)
		}
		if want := 2 * (w + dp); math.Abs(perimeter-want) > 1e-9*want {
			t.Errorf("perimeter = %v, want %v", perimeter, want)
		}
	}
}

func TestBuildWallLoopCounterClockwise(t *testing.T) {
	walls, err := BuildWallLoop(10, 5, level1, level2)
	if err != nil {
		t.Fatal(err)
	}
	// Shoelace: positive signed area means counter-clockwise.
	area := 0.0
	for _, w := range walls {
		area += w.Start.X*w.End.Y - w.End.X*w.Start.Y
	}
	if area/2 != 50 {
		t.Errorf("signed area = %v, want 50", area/2)
	}
}

func TestFrontWallIndependentOfDepth(t *testing.T) {
	for _, dp := range []float64{1, 2, 17.5, 300} {
		walls, err := BuildWallLoop(8, dp, level1, level2)
		if err != nil {
			t.Fatal(err)
		}
		want := WallSegment{Index: 0, Start: geom.XYZ(-4, -dp/2, 0), End: geom.XYZ(4, -dp/2, 0), Base: level1, Top: level2}
		if diff := cmp.Diff(want, walls[FrontWall], approx); diff != "" {
			t.Errorf("front wall mismatch for depth %v (-want +got):\n%s", dp, diff)
		}
	}
}

func TestWallLevels(t *testing.T) {
	walls, _ := BuildWallLoop(3, 4, level1, level2)
	for _, w := range walls {
		if w.Base != level1 || w.Top != level2 {
			t.Errorf("wall %d levels = %v/%v", w.Index, w.Base.Name, w.Top.Name)
		}
		if math.Abs(w.Height()-units.MM(4000)) > 1e-12 {
			t.Errorf("wall %d height = %v", w.Index, w.Height())
		}
	}
}

func TestBuildWallLoopInvalid(t *testing.T) {
	tests := []struct {
		name         string
		width, depth float64
	}{
		{"zero width", 0, 5},
		{"zero depth", 5, 0},
		{"negative width", -1, 5},
		{"negative depth", 5, -2},
		{"NaN width", math.NaN(), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walls, err := BuildWallLoop(tt.width, tt.depth, level1, level2)
			if !errors.Is(err, errors.ErrCodeInvalidDimension) {
				t.Errorf("expected INVALID_DIMENSION, got %v", err)
			}
			if walls != nil {
				t.Error("walls should be nil on error")
			}
		})
	}
}

func TestMillimeterScenario(t *testing.T) {
	w, d := units.MM(10000), units.MM(5000)
	walls, err := BuildWallLoop(w, d, level1, level2)
	if err != nil {
		t.Fatal(err)
	}
	dx, dy := 5000/304.8, 2500/304.8
	want := []geom.Point3{
		geom.XYZ(-dx, -dy, 0),
		geom.XYZ(dx, -dy, 0),
		geom.XYZ(dx, dy, 0),
		geom.XYZ(-dx, dy, 0),
	}
	var got []geom.Point3
	for _, wall := range walls {
		got = append(got, wall.Start)
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("corners mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(units.ToMM(walls[1].Start.X)-5000) > 1e-9 || math.Abs(units.ToMM(walls[1].Start.Y)+2500) > 1e-9 {
		t.Errorf("corner 1 in mm = (%v, %v)", units.ToMM(walls[1].Start.X), units.ToMM(walls[1].Start.Y))
	}
}

func TestPlaceDoor(t *testing.T) {
	base := Level{Name: "Ground", Elevation: 3.5}
	for _, d := range dims() {
		walls, err := BuildWallLoop(d[0], d[1], base, level2)
		if err != nil {
			t.Fatal(err)
		}
		got := PlaceDoor(walls[FrontWall])
		if diff := cmp.Diff(geom.XYZ(0, -d[1]/2, 3.5), got, approx); diff != "" {
			t.Errorf("door mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestPlaceWindows(t *testing.T) {
	for _, d := range dims() {
		walls, _ := BuildWallLoop(d[0], d[1], level1, level2)
		pts, err := PlaceWindows(walls, FrontWall)
		if err != nil {
			t.Fatal(err)
		}
		if len(pts) != 3 {
			t.Fatalf("got %d windows, want 3", len(pts))
		}
		for i, p := range pts {
			wall := walls[i+1]
			if !wall.Line().Contains(p, 1e-9) {
				t.Errorf("window %d %+v not on wall %d", i, p, wall.Index)
			}
		}
	}
}

func TestPlaceWindowsOrder(t *testing.T) {
	walls, _ := BuildWallLoop(10, 6, level1, level2)
	pts, err := PlaceWindows(walls, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.Point3{geom.XYZ(0, -3, 0), geom.XYZ(5, 0, 0), geom.XYZ(-5, 0, 0)}
	if diff := cmp.Diff(want, pts, approx); diff != "" {
		t.Errorf("windows mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceWindowsInvalid(t *testing.T) {
	walls, _ := BuildWallLoop(10, 6, level1, level2)
	tests := []struct {
		name    string
		walls   []WallSegment
		exclude int
	}{
		{"empty loop", nil, 0},
		{"single wall", walls[:1], 0},
		{"negative index", walls, -1},
		{"index past end", walls, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PlaceWindows(tt.walls, tt.exclude); !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
}

func TestPlaceOpenings(t *testing.T) {
	walls, _ := BuildWallLoop(10, 6, level1, level2)
	door, windows, err := PlaceOpenings(walls, FrontWall)
	if err != nil {
		t.Fatal(err)
	}
	if door.Kind != OpeningDoor || door.WallIndex != 0 {
		t.Errorf("door = %+v", door)
	}
	for i, w := range windows {
		if w.Kind != OpeningWindow || w.WallIndex != i+1 {
			t.Errorf("window %d = %+v", i, w)
		}
	}
}

func TestBuildRoofProfile(t *testing.T) {
	top := Level{Name: "Level 2", Elevation: 13}
	for _, d := range dims() {
		w, dp := d[0], d[1]
		r, err := BuildRoofProfile(w, dp, 0.5, top)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(geom.XYZ(0, 0, 13+DefaultRise), r.Ridge, approx); diff != "" {
			t.Errorf("ridge mismatch (-want +got):\n%s", diff)
		}
		if r.Segments[0].End != r.Ridge || r.Segments[1].Start != r.Ridge {
			t.Error("segments do not share the ridge")
		}
		// Mirroring segment 0 across y=0 yields segment 1 reversed.
		mirror := func(p geom.Point3) geom.Point3 { return geom.XYZ(p.X, -p.Y, p.Z) }
		s0, s1 := r.Segments[0], r.Segments[1]
		if diff := cmp.Diff(geom.NewLine(mirror(s0.Start), mirror(s0.End)), s1.Reversed(), approx); diff != "" {
			t.Errorf("profile not symmetric (-want +got):\n%s", diff)
		}
		if r.ExtrusionStart > -w/2-0.25+1e-12 || r.ExtrusionEnd < w/2+0.25-1e-12 {
			t.Errorf("extrusion [%v, %v] does not cover width %v plus thickness", r.ExtrusionStart, r.ExtrusionEnd, w)
		}
		if math.Abs(r.Span()-(w+0.5)) > 1e-9 {
			t.Errorf("Span = %v, want %v", r.Span(), w+0.5)
		}
	}
}

func TestBuildRoofProfileValues(t *testing.T) {
	r, err := BuildRoofProfile(10, 6, 1, Level{Name: "Roof", Elevation: 2}, WithRise(4))
	if err != nil {
		t.Fatal(err)
	}
	want := RoofProfile{
		Segments: [2]geom.Line{
			geom.NewLine(geom.XYZ(0, -3.5, 2), geom.XYZ(0, 0, 6)),
			geom.NewLine(geom.XYZ(0, 0, 6), geom.XYZ(0, 3.5, 2)),
		},
		Ridge:          geom.XYZ(0, 0, 6),
		CurveStart:     -3.5,
		CurveEnd:       3.5,
		ExtrusionStart: -5.5,
		ExtrusionEnd:   5.5,
		Rise:           4,
		Level:          Level{Name: "Roof", Elevation: 2},
	}
	if diff := cmp.Diff(want, r, approx); diff != "" {
		t.Errorf("roof mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(r.Pitch()-4/3.5) > 1e-12 {
		t.Errorf("Pitch = %v", r.Pitch())
	}
}

func TestBuildRoofProfileInvalid(t *testing.T) {
	tests := []struct {
		name                    string
		width, depth, thickness float64
		opts                    []RoofOption
	}{
		{"zero width", 0, 5, 1, nil},
		{"negative depth", 5, -5, 1, nil},
		{"zero thickness", 5, 5, 0, nil},
		{"negative thickness", 5, 5, -0.1, nil},
		{"zero rise", 5, 5, 1, []RoofOption{WithRise(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRoofProfile(tt.width, tt.depth, tt.thickness, level2, tt.opts...)
			if !errors.Is(err, errors.ErrCodeInvalidDimension) {
				t.Errorf("expected INVALID_DIMENSION, got %v", err)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	spec := Spec{
		Width:         units.MM(10000),
		Depth:         units.MM(5000),
		WallThickness: units.MM(200),
		Levels:        []Level{level2, level1},
		BaseLevel:     "Level 1",
		TopLevel:      "Level 2",
	}
	b, err := Build(spec)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if b.Base != level1 || b.Top != level2 {
		t.Errorf("levels = %v/%v", b.Base.Name, b.Top.Name)
	}
	if len(b.Walls) != 4 || len(b.Windows) != 3 {
		t.Errorf("got %d walls, %d windows", len(b.Walls), len(b.Windows))
	}
	if b.Door.WallIndex != FrontWall {
		t.Errorf("door on wall %d", b.Door.WallIndex)
	}
	if b.Roof.Rise != DefaultRise {
		t.Errorf("rise = %v", b.Roof.Rise)
	}
}

func TestBuildStopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		code errors.Code
	}{
		{"missing base", Spec{Width: 1, Depth: 1, WallThickness: 1, Levels: []Level{level2}, BaseLevel: "Level 1", TopLevel: "Level 2"}, errors.ErrCodeNotFound},
		{"missing top", Spec{Width: 1, Depth: 1, WallThickness: 1, Levels: []Level{level1}, BaseLevel: "Level 1", TopLevel: "Level 2"}, errors.ErrCodeNotFound},
		{"bad width", Spec{Width: 0, Depth: 1, WallThickness: 1, Levels: []Level{level1, level2}, BaseLevel: "Level 1", TopLevel: "Level 2"}, errors.ErrCodeInvalidDimension},
		{"bad door wall", Spec{Width: 1, Depth: 1, WallThickness: 1, DoorWall: 7, Levels: []Level{level1, level2}, BaseLevel: "Level 1", TopLevel: "Level 2"}, errors.ErrCodeInvalidArgument},
		{"bad thickness", Spec{Width: 1, Depth: 1, Levels: []Level{level1, level2}, BaseLevel: "Level 1", TopLevel: "Level 2"}, errors.ErrCodeInvalidDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Build(tt.spec)
			if !errors.Is(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
			if b.Walls != nil {
				t.Error("failed build should return zero Building")
			}
		})
	}
}

func TestBuildStageFunc(t *testing.T) {
	spec := Spec{
		Width:         units.MM(10000),
		Depth:         units.MM(5000),
		WallThickness: units.MM(200),
		Levels:        []Level{level1, level2},
		BaseLevel:     "Level 1",
		TopLevel:      "Level 2",
	}

	var stages []string
	b, err := Build(spec, WithStageFunc(func(name string, run func() error) error {
		stages = append(stages, name)
		return run()
	}))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	want := []string{StageLevels, StageWalls, StageOpenings, StageRoof}
	if diff := cmp.Diff(want, stages); diff != "" {
		t.Errorf("stages (-want +got):\n%s", diff)
	}
	plain, err := Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(plain, b, approx); diff != "" {
		t.Errorf("stage func changed the building (-plain +wrapped):\n%s", diff)
	}
}

func TestBuildStageFuncAborts(t *testing.T) {
	spec := Spec{
		Width:         1,
		Depth:         1,
		WallThickness: 1,
		Levels:        []Level{level1, level2},
		BaseLevel:     "Level 1",
		TopLevel:      "Level 2",
	}
	stop := fmt.Errorf("stop before roof")

	var ran []string
	b, err := Build(spec, WithStageFunc(func(name string, run func() error) error {
		if name == StageRoof {
			return stop
		}
		ran = append(ran, name)
		return run()
	}))
	if err != stop {
		t.Fatalf("err = %v, want the stage func error unchanged", err)
	}
	if b.Walls != nil {
		t.Error("aborted build should return zero Building")
	}
	if len(ran) != 3 {
		t.Errorf("ran %v before aborting", ran)
	}
}
