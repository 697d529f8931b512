//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/footprint/pkg/errors"
)

func newTestMongo(t *testing.T) *Mongo {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := "footprint_test_" + uuid.NewString()[:8]
	s, err := NewMongo(ctx, uri, db)
	if err != nil {
		t.Fatalf("NewMongo: %v", err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		_ = s.client.Database(db).Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestMongoRoundTrip(t *testing.T) {
	s := newTestMongo(t)
	ctx := context.Background()

	r := &Record{Formats: []string{"svg", "json"}, ModelHash: "abc"}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ModelHash != "abc" || len(got.Formats) != 2 {
		t.Errorf("Get = %+v", got)
	}

	list, err := s.List(ctx, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}

	if err := s.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, r.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND after delete, got %v", err)
	}
}
