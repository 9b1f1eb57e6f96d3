package semantic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
)

// VectorStore persists vectors between processes (see internal/cache).
type VectorStore interface {
	Get(key string) ([]float32, bool)
	Put(key string, vec []float32) error
}

// CachingEmbedder memoizes another [Embedder]. Probe phrases are fixed, so
// after warm-up only transcripts reach the wrapped embedder. Returned vectors
// are shared and must not be modified.
type CachingEmbedder struct {
	next  Embedder
	model string
	store VectorStore

	mu  sync.RWMutex
	mem map[string][]float32
}

// NewCachingEmbedder wraps next. model namespaces the keys; store may be nil.
func NewCachingEmbedder(next Embedder, model string, store VectorStore) *CachingEmbedder {
	return &CachingEmbedder{
		next:  next,
		model: model,
		store: store,
		mem:   make(map[string][]float32),
	}
}

// VectorKey returns the cache key for text embedded with model.
func VectorKey(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model + "\x00"))
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := VectorKey(c.model, text)

	c.mu.RLock()
	vec, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	if c.store != nil {
		if vec, ok := c.store.Get(key); ok {
			c.remember(key, vec)
			return vec, nil
		}
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.remember(key, vec)

	if c.store != nil {
		if err := c.store.Put(key, vec); err != nil {
			slog.Warn("Failed to persist embedding", "key", key, "error", err)
		}
	}
	return vec, nil
}

func (c *CachingEmbedder) remember(key string, vec []float32) {
	c.mu.Lock()
	c.mem[key] = vec
	c.mu.Unlock()
}
