package model

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/host"
)

func testModel(t *testing.T) Model {
	t.Helper()
	b, err := footprint.Build(footprint.Spec{
		Width:         30,
		Depth:         15,
		WallThickness: 0.5,
		Levels:        []footprint.Level{{Name: "Level 1"}, {Name: "Level 2", Elevation: 12}},
		BaseLevel:     "Level 1",
		TopLevel:      "Level 2",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return New(b, host.DefaultTypes())
}

func TestMarshalUnmarshal(t *testing.T) {
	m := testModel(t)
	data, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	_, err := Unmarshal([]byte("{not json"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Model)
	}{
		{"version zero", func(m *Model) { m.Version = 0 }},
		{"future version", func(m *Model) { m.Version = Version + 1 }},
		{"metric units", func(m *Model) { m.Units = "mm" }},
		{"three walls", func(m *Model) { m.Building.Walls = m.Building.Walls[:3] }},
		{"reindexed wall", func(m *Model) { m.Building.Walls[2].Index = 7 }},
		{"open loop", func(m *Model) { m.Building.Walls[1].Start.X += 1 }},
		{"door kind", func(m *Model) { m.Building.Door.Kind = footprint.OpeningWindow }},
		{"door wall", func(m *Model) { m.Building.Door.WallIndex = 4 }},
		{"two windows", func(m *Model) { m.Building.Windows = m.Building.Windows[:2] }},
		{"window on door wall", func(m *Model) { m.Building.Windows[0].WallIndex = m.Building.Door.WallIndex }},
		{"flat roof", func(m *Model) { m.Building.Roof.Rise = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t)
			tt.mutate(&m)
			if err := Validate(m); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Validate = %v, want INVALID_FORMAT", err)
			}
		})
	}

	if err := Validate(testModel(t)); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	m := testModel(t)
	r := host.Realization{Walls: []host.ElementID{"a", "b", "c", "d"}, Door: "e"}
	m.Realization = &r

	path := filepath.Join(t.TempDir(), "model.json")
	if err := WriteFile(m, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("file round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileNotFound(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
