package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"feedhub/infrastructure/logger"
)

// Layer is the durable tier behind the in-memory map. Implementations must
// be safe for concurrent use; every error they return is swallowed by the
// cache, which then behaves as memory-only.
type Layer interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// RequestCache is a two-tier cache keyed by request fingerprint: a fast
// in-memory layer in front of an optional durable layer. Expired entries
// are treated as absent in both tiers; durable hits are promoted to memory.
type RequestCache struct {
	mu      sync.RWMutex
	mem     map[string]entry
	durable Layer

	// now is swapped in tests to drive expiry.
	now func() time.Time
}

// NewRequestCache builds a cache over the given durable layer. A nil layer
// yields a memory-only cache.
func NewRequestCache(durable Layer) *RequestCache {
	return &RequestCache{
		mem:     make(map[string]entry),
		durable: durable,
		now:     time.Now,
	}
}

// Key derives the stable fingerprint for a request. url.Values.Encode sorts
// by key, so two parameter sets differing only in insertion order collide.
// The credential component keeps two signed-in identities from ever sharing
// a slot.
func Key(endpoint string, params url.Values, credential string) string {
	normalized := ""
	if params != nil {
		normalized = params.Encode()
	}
	sum := sha256.Sum256([]byte(endpoint + "?" + normalized + "|" + credential))
	return fmt.Sprintf("req:%x", sum[:16])
}

// Get checks memory first and falls back to the durable layer, promoting an
// unexpired durable hit into memory. Expired entries are dropped and
// reported as absent.
func (c *RequestCache) Get(ctx context.Context, key string) ([]byte, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		if now.Before(e.ExpiresAt) {
			return e.Value, true
		}
		c.mu.Lock()
		delete(c.mem, key)
		c.mu.Unlock()
	}

	if c.durable == nil {
		return nil, false
	}
	raw, err := c.durable.Get(ctx, key)
	if err != nil || raw == nil {
		return nil, false
	}
	var de entry
	if err := json.Unmarshal(raw, &de); err != nil {
		return nil, false
	}
	if !now.Before(de.ExpiresAt) {
		return nil, false
	}
	c.mu.Lock()
	c.mem[key] = de
	c.mu.Unlock()
	return de.Value, true
}

// Set writes both tiers with expiresAt = now + ttl. A durable-layer failure
// is logged at debug and otherwise ignored: the cache degrades to
// memory-only rather than surfacing storage trouble to callers.
func (c *RequestCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	e := entry{Value: value, ExpiresAt: c.now().Add(ttl)}

	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	if c.durable == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.durable.Set(ctx, key, raw, ttl); err != nil {
		logger.GetLogger().WithField("error", err).Debug("durable cache write failed")
	}
}
