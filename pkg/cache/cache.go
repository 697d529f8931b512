// Package cache stores computed building models and rendered artifacts.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// API server, and [NullCache] when caching is disabled. Keys are produced by a
// [Keyer] so that callers never build key strings by hand.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Default time-to-live values per entry type.
const (
	TTLModel    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ModelKeyOpts identifies the inputs of a computed model.
// Two option sets that hash equal always produce the same geometry.
type ModelKeyOpts struct {
	WidthMM         float64            `json:"width_mm"`
	DepthMM         float64            `json:"depth_mm"`
	WallThicknessMM float64            `json:"wall_thickness_mm"`
	Rise            float64            `json:"rise"`
	BaseLevel       string             `json:"base_level"`
	TopLevel        string             `json:"top_level"`
	Levels          map[string]float64 `json:"levels"`
	DoorWall        int                `json:"door_wall"`
	Types           []string           `json:"types,omitempty"`
}

// ArtifactKeyOpts identifies a rendered artifact of a model.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Scale   float64 `json:"scale,omitempty"`
	Symbols string  `json:"symbols,omitempty"` // hash of the catalog symbols the renderer reads
}

// Keyer generates cache keys.
type Keyer interface {
	// ModelKey returns the key for a computed model.
	ModelKey(opts ModelKeyOpts) string

	// ArtifactKey returns the key for a rendering of the model with the given hash.
	ArtifactKey(modelHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ModelKey returns "model:<sha256>".
func (DefaultKeyer) ModelKey(opts ModelKeyOpts) string {
	return hashKey(KindModel, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, modelHash, opts)
}

// Hash returns the hex SHA-256 of data. Model hashes and file cache paths
// both use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<kind>:<sha256 of the JSON parts>".
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
