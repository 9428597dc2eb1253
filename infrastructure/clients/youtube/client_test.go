package youtube

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"feedhub/infrastructure/cache"
	ytapi "google.golang.org/api/youtube/v3"
)

type stubCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{data: map[string][]byte{}}
}

func (s *stubCache) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	return raw, ok
}

func (s *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func testClient(c *stubCache) *Client {
	return &Client{
		cache:      c,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		ttl:        TTL{List: 10 * time.Minute, Detail: 5 * time.Minute},
		credential: "user:test",
	}
}

func TestCachedCall(t *testing.T) {
	ctx := context.Background()

	t.Run("MissFetchesThenHitSkipsNetwork", func(t *testing.T) {
		sc := newStubCache()
		c := testClient(sc)
		params := paramValues(videosParams{Part: "snippet", ID: []string{"a", "b"}})

		calls := 0
		fetch := func(context.Context) ([]string, error) {
			calls++
			return []string{"a", "b"}, nil
		}

		got, err := cachedCall(ctx, c, "videos", params, time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
		assert.Equal(t, 1, calls)

		got, err = cachedCall(ctx, c, "videos", params, time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
		assert.Equal(t, 1, calls, "second call must be served from cache")
	})

	t.Run("FetchErrorNotCached", func(t *testing.T) {
		sc := newStubCache()
		c := testClient(sc)
		params := paramValues(channelsParams{Part: "snippet", ID: []string{"c1"}})

		boom := errors.New("quota exceeded")
		_, err := cachedCall(ctx, c, "channels", params, time.Minute, func(context.Context) (int, error) {
			return 0, boom
		})
		require.ErrorIs(t, err, boom)
		assert.Empty(t, sc.data)
	})

	t.Run("UndecodableEntryIsMiss", func(t *testing.T) {
		sc := newStubCache()
		c := testClient(sc)
		params := paramValues(videosParams{Part: "snippet", ID: []string{"x"}})
		sc.data[cache.Key("videos", params, c.credential)] = []byte("{not json")

		calls := 0
		got, err := cachedCall(ctx, c, "videos", params, time.Minute, func(context.Context) (string, error) {
			calls++
			return "fresh", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", got)
		assert.Equal(t, 1, calls)
	})

	t.Run("CredentialSeparatesEntries", func(t *testing.T) {
		sc := newStubCache()
		alice := testClient(sc)
		bob := testClient(sc)
		bob.credential = "user:bob"
		params := paramValues(subscriptionsParams{Part: "snippet", Mine: true, Order: "alphabetical", MaxResults: 50})

		_, err := cachedCall(ctx, alice, "subscriptions", params, time.Minute, func(context.Context) (string, error) {
			return "alice-subs", nil
		})
		require.NoError(t, err)

		got, err := cachedCall(ctx, bob, "subscriptions", params, time.Minute, func(context.Context) (string, error) {
			return "bob-subs", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "bob-subs", got)
	})
}

func TestRequireAuth(t *testing.T) {
	c := testClient(newStubCache())
	err := c.requireAuth()
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestNoCredentialsFailsFast(t *testing.T) {
	ctx := context.Background()
	c, err := NewYouTubeClient(ctx, &Config{}, newStubCache(), nil, TTL{})
	require.NoError(t, err)
	assert.Empty(t, c.CredentialFingerprint())

	_, err = c.SubscriptionsPage(ctx, "")
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = c.VideoDetailsBatch(ctx, []string{"v1"})
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = c.UploadsPlaylistID(ctx, "c1")
	assert.ErrorIs(t, err, ErrNoCredentials)

	err = c.Subscribe(ctx, "c1")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestChunkIDs(t *testing.T) {
	ids := make([]string, 120)
	for i := range ids {
		ids[i] = string(rune('a' + i%26))
	}
	chunks := chunkIDs(ids, 50)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 50)
	assert.Len(t, chunks[1], 50)
	assert.Len(t, chunks[2], 20)

	assert.Nil(t, chunkIDs(nil, 50))
	assert.Len(t, chunkIDs([]string{"one"}, 50), 1)
}

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t, "", thumbnailURL(nil))

	full := &ytapi.ThumbnailDetails{
		Default: &ytapi.Thumbnail{Url: "d"},
		Medium:  &ytapi.Thumbnail{Url: "m"},
		High:    &ytapi.Thumbnail{Url: "h"},
	}
	assert.Equal(t, "m", thumbnailURL(full))

	noMedium := &ytapi.ThumbnailDetails{
		Default: &ytapi.Thumbnail{Url: "d"},
		High:    &ytapi.Thumbnail{Url: "h"},
	}
	assert.Equal(t, "h", thumbnailURL(noMedium))
}

func TestParamValuesStable(t *testing.T) {
	a := paramValues(videosParams{Part: "snippet,statistics", ID: []string{"v1", "v2"}})
	b := paramValues(videosParams{Part: "snippet,statistics", ID: []string{"v1", "v2"}})
	assert.Equal(t, a.Encode(), b.Encode())
	assert.Equal(t, "v1,v2", a.Get("id"))
}
