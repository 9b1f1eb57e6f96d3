package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const entryExt = ".json.zst"

// Cache stores embedding vectors on disk, one zstd-compressed JSON file per key.
// It only ever holds vectors; reports are never persisted.
type Cache struct {
	dir string
	mu  sync.Mutex

	enc *zstd.Encoder
	dec *zstd.Decoder
}

type entry struct {
	Dims   int       `json:"dims"`
	Vector []float32 `json:"vector"`
}

// New creates a new cache rooted at dir. An empty dir disables the cache.
func New(dir string) (*Cache, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &Cache{dir: dir, enc: enc, dec: dec}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Get retrieves a cached vector if it exists
func (c *Cache) Get(key string) ([]float32, bool) {
	if c.dir == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.cachePath(key))
	if err != nil {
		return nil, false
	}

	raw, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		// Corrupt entry, treat as miss
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || len(e.Vector) != e.Dims {
		return nil, false
	}
	return e.Vector, true
}

// Put stores a vector in the cache
func (c *Cache) Put(key string, vec []float32) error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	raw, err := json.Marshal(entry{Dims: len(vec), Vector: vec})
	if err != nil {
		return fmt.Errorf("marshaling vector: %w", err)
	}

	if err := os.WriteFile(c.cachePath(key), c.enc.EncodeAll(raw, nil), 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes all cached vectors
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return nil
	}

	// Safety check: only remove a directory that contains nothing but cache entries
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
		}
		if !strings.HasSuffix(e.Name(), entryExt) {
			return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
		}
	}

	return os.RemoveAll(c.dir)
}

// Len returns the number of entries on disk.
func (c *Cache) Len() int {
	if c.dir == "" {
		return 0
	}
	matches, _ := filepath.Glob(filepath.Join(c.dir, "*"+entryExt))
	return len(matches)
}

func (c *Cache) cachePath(key string) string {
	return filepath.Join(c.dir, key+entryExt)
}
