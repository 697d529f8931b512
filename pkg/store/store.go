// Package store persists build records for the HTTP API.
//
// [Memory] keeps records in process and suits tests and single-node use;
// [Mongo] stores them in a MongoDB collection. Both assign record IDs with
// github.com/google/uuid and return NOT_FOUND errors for unknown IDs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/model"
	"github.com/matzehuels/footprint/pkg/pipeline"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50

// Record is a stored build.
type Record struct {
	ID        string           `json:"id" bson:"_id"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	Options   pipeline.Options `json:"options" bson:"options"`
	Model     model.Model      `json:"model" bson:"model"`
	ModelHash string           `json:"model_hash" bson:"model_hash"`
	Formats   []string         `json:"formats" bson:"formats"`
	Elements  int              `json:"elements,omitempty" bson:"elements,omitempty"`
}

// Store persists build records.
type Store interface {
	// Save stores r, assigning ID and CreatedAt when they are unset.
	Save(ctx context.Context, r *Record) error

	// Get returns the record with the given ID or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record. Deleting an unknown ID is a NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare fills ID and CreatedAt.
func prepare(r *Record) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}

func notFound(id string) error {
	return errors.NotFound("build", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
