// Package model defines the serialized form of a computed building.
//
// A [Model] is the unit exchanged between the pipeline, the cache, the build
// store, the HTTP API and files on disk. All lengths are in internal units
// (decimal feet); [Model.Units] records this so readers never guess.
//
// Use [Marshal]/[Unmarshal] for in-memory data and [WriteFile]/[ReadFile]
// for files. Decoding validates the building's shape, so a Model obtained from
// any of these functions always has four walls, one door and three windows.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/host"
	"github.com/matzehuels/footprint/pkg/units"
)

// Version is the current model format version.
const Version = 1

// Model is a computed building plus the family types it is realized with.
type Model struct {
	Version     int                `json:"version" bson:"version"`
	Units       units.Unit         `json:"units" bson:"units"`
	Building    footprint.Building `json:"building" bson:"building"`
	Types       host.Types         `json:"types" bson:"types"`
	Realization *host.Realization  `json:"realization,omitempty" bson:"realization,omitempty"`
}

// New wraps a building in a model of the current version.
func New(b footprint.Building, types host.Types) Model {
	return Model{
		Version:  Version,
		Units:    units.Internal,
		Building: b,
		Types:    types,
	}
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a model to pretty-printed JSON.
func Marshal(m Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a model.
func Unmarshal(data []byte) (Model, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes m as JSON to w.
func Write(m Model, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// Read decodes and validates a model from r.
func Read(r io.Reader) (Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Model{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode model")
	}
	if err := Validate(m); err != nil {
		return Model{}, err
	}
	return m, nil
}

// WriteFile writes m to path with 0644 permissions.
func WriteFile(m Model, path string) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads and validates a model file.
func ReadFile(path string) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return Model{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the structural invariants of a building model.
func Validate(m Model) error {
	if m.Version < 1 || m.Version > Version {
		return invalid("unsupported version %d", m.Version)
	}
	if m.Units != "" && m.Units != units.Internal {
		return invalid("units %q, want %q", m.Units, units.Internal)
	}

	b := m.Building
	if len(b.Walls) != footprint.WallCount {
		return invalid("model has %d walls, want %d", len(b.Walls), footprint.WallCount)
	}
	for i, w := range b.Walls {
		if w.Index != i {
			return invalid("wall %d has index %d", i, w.Index)
		}
		if !(w.Length() > 0) {
			return invalid("wall %d has zero length", i)
		}
		if i > 0 && !w.Start.Near(b.Walls[i-1].End, 1e-6) {
			return invalid("wall %d does not start where wall %d ends", i, i-1)
		}
	}

	if b.Door.Kind != footprint.OpeningDoor {
		return invalid("door has kind %q", b.Door.Kind)
	}
	if b.Door.WallIndex < 0 || b.Door.WallIndex >= len(b.Walls) {
		return invalid("door wall %d outside loop", b.Door.WallIndex)
	}

	if want := footprint.WallCount - 1; len(b.Windows) != want {
		return invalid("model has %d windows, want %d", len(b.Windows), want)
	}
	for i, w := range b.Windows {
		if w.Kind != footprint.OpeningWindow {
			return invalid("window %d has kind %q", i, w.Kind)
		}
		if w.WallIndex < 0 || w.WallIndex >= len(b.Walls) || w.WallIndex == b.Door.WallIndex {
			return invalid("window %d on wall %d", i, w.WallIndex)
		}
	}

	if !(b.Roof.Rise > 0) {
		return invalid("roof rise must be positive")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidFormat, format, args...)
}
