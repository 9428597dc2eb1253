package repository

import (
	"context"
	"time"
)

// IRequestCache is the fingerprint-keyed request cache. Values are opaque
// JSON bytes; callers marshal their own DTOs. Get returns false both for a
// true miss and for an expired entry. Set never fails: a broken durable
// layer degrades the cache to memory-only.
type IRequestCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
