package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry kinds, taken from the key prefix a [Keyer] writes.
const (
	KindModel    = "model"
	KindArtifact = "artifact"
)

// FileCache keeps one JSON file per key under a directory, fanned out into
// two-character subdirectories by key hash. Each file records the kind of
// entry it holds so that models and artifacts can be counted and purged
// separately.
type FileCache struct {
	dir string
}

// NewFileCache opens the cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Kind      string    `json:"kind,omitempty"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// KindOf returns the entry kind of a key: the segment before the hash, so
// "api:model:<hash>" is a model. Keys without a prefix have no kind.
func KindOf(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return ""
	}
	prefix := key[:i]
	return prefix[strings.LastIndexByte(prefix, ':')+1:]
}

// Get returns the entry for key. Expired and unreadable entries are removed
// and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set writes data under key. A ttl of zero never expires.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Kind: KindOf(key), Data: data}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// Delete removes key; a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string {
	return c.dir
}

// Count returns the number of live entries per kind. Expired entries are
// not counted; unreadable ones count under "".
func (c *FileCache) Count() (map[string]int, error) {
	counts := make(map[string]int)
	now := time.Now()
	err := c.walk(func(_ string, e fileEntry, ok bool) error {
		switch {
		case !ok:
			counts[""]++
		case !e.expired(now):
			counts[e.Kind]++
		}
		return nil
	})
	return counts, err
}

// Purge removes every entry of the given kind and returns how many were
// removed. An empty kind clears the whole cache.
func (c *FileCache) Purge(kind string) (int, error) {
	if kind == "" {
		counts, err := c.Count()
		if err != nil {
			return 0, err
		}
		n := 0
		for _, v := range counts {
			n += v
		}
		return n, c.Clear()
	}
	n := 0
	err := c.walk(func(path string, e fileEntry, ok bool) error {
		if !ok || e.Kind != kind {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// Clear removes every entry and recreates the empty root.
func (c *FileCache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0755)
}

// Close is a no-op.
func (c *FileCache) Close() error {
	return nil
}

// walk calls fn for each entry file; ok is false when the file does not
// decode as an entry.
func (c *FileCache) walk(fn func(path string, e fileEntry, ok bool) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var e fileEntry
		ok := json.Unmarshal(raw, &e) == nil
		return fn(path, e, ok)
	})
}

func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
