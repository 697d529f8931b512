package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := ModelKeyOpts{WidthMM: 10000, DepthMM: 5000, BaseLevel: "Level 1", TopLevel: "Level 2"}
	mk1 := k.ModelKey(base)
	if mk1 != k.ModelKey(base) {
		t.Error("ModelKey should be deterministic")
	}
	if !strings.HasPrefix(mk1, "model:") {
		t.Errorf("ModelKey unexpected prefix: %s", mk1)
	}

	wider := base
	wider.WidthMM = 12000
	if mk1 == k.ModelKey(wider) {
		t.Error("Different ModelKeyOpts should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "elevation"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if ak1 == k.ArtifactKey("hash456", ArtifactKeyOpts{Format: "svg"}) {
		t.Error("Different model hashes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "api:")

	opts := ModelKeyOpts{WidthMM: 1}
	if got, want := scoped.ModelKey(opts), "api:"+inner.ModelKey(opts); got != want {
		t.Errorf("ScopedKeyer ModelKey = %s, want %s", got, want)
	}
	ak := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "json"})
	if !strings.HasPrefix(ak, "api:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", ak)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ModelKey(ModelKeyOpts{})
	if key != "prefix:"+NewDefaultKeyer().ModelKey(ModelKeyOpts{}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("empty cache Get: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("walls"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "walls" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrBackend)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrBackend.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrBackend) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrBackend
	})
	if err != ErrBackend {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrBackend)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrBackend)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestKindOf(t *testing.T) {
	k := NewDefaultKeyer()
	tests := []struct {
		key  string
		want string
	}{
		{k.ModelKey(ModelKeyOpts{}), KindModel},
		{k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}), KindArtifact},
		{NewScopedKeyer(k, "api:").ModelKey(ModelKeyOpts{}), KindModel},
		{"plain", ""},
	}
	for _, tt := range tests {
		if got := KindOf(tt.key); got != tt.want {
			t.Errorf("KindOf(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFileCacheCountAndPurge(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := NewDefaultKeyer()
	keys := []string{
		k.ModelKey(ModelKeyOpts{WidthMM: 1}),
		k.ModelKey(ModelKeyOpts{WidthMM: 2}),
		k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}),
		k.ArtifactKey("h", ArtifactKeyOpts{Format: "json"}),
		k.ArtifactKey("h", ArtifactKeyOpts{Format: "dot"}),
	}
	for _, key := range keys {
		if err := c.Set(ctx, key, []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Set(ctx, k.ModelKey(ModelKeyOpts{WidthMM: 3}), []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)

	counts, err := c.Count()
	if err != nil {
		t.Fatal(err)
	}
	if counts[KindModel] != 2 || counts[KindArtifact] != 3 {
		t.Errorf("Count = %v, want 2 models and 3 artifacts", counts)
	}

	n, err := c.Purge(KindArtifact)
	if err != nil || n != 3 {
		t.Fatalf("Purge(artifact) = %d, %v", n, err)
	}
	if _, hit, _ := c.Get(ctx, keys[0]); !hit {
		t.Error("purging artifacts removed a model")
	}
	if _, hit, _ := c.Get(ctx, keys[2]); hit {
		t.Error("artifact survived Purge")
	}

	n, err = c.Purge("")
	if err != nil || n != 2 {
		t.Fatalf("Purge(all) = %d, %v", n, err)
	}
	if counts, _ := c.Count(); len(counts) != 0 {
		t.Errorf("Count after Purge(all) = %v", counts)
	}
}
