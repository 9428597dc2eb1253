package youtube

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"feedhub/infrastructure/cache"
	"feedhub/infrastructure/logger"
)

// cachedCall serves fetch through the request cache. A hit returns the
// cached body without touching the network or the rate limiter; a miss
// waits on the limiter, fetches, and stores the result for ttl. A cached
// body that no longer unmarshals is treated as a miss. A credential-less
// client never reaches the network: its misses fail with ErrNoCredentials.
func cachedCall[T any](ctx context.Context, c *Client, endpoint string, params url.Values, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	key := cache.Key(endpoint, params, c.credential)

	if c.cache != nil {
		if raw, ok := c.cache.Get(ctx, key); ok {
			var out T
			if err := json.Unmarshal(raw, &out); err == nil {
				return out, nil
			}
			logger.GetLogger().WithField("endpoint", endpoint).Warn("discarding undecodable cache entry")
		}
	}

	if c.credential == "" {
		return zero, ErrNoCredentials
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return zero, err
	}
	out, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if c.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			c.cache.Set(ctx, key, raw, ttl)
		}
	}
	return out, nil
}
