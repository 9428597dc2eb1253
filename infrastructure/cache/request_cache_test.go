package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLayer struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeLayer() *fakeLayer {
	return &fakeLayer{data: map[string][]byte{}}
}

func (f *fakeLayer) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeLayer) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func TestKey(t *testing.T) {
	t.Run("ParameterOrderDoesNotMatter", func(t *testing.T) {
		a := url.Values{}
		a.Set("part", "snippet")
		a.Set("maxResults", "50")
		b := url.Values{}
		b.Set("maxResults", "50")
		b.Set("part", "snippet")
		assert.Equal(t, Key("subscriptions", a, "tok"), Key("subscriptions", b, "tok"))
	})

	t.Run("EndpointSeparates", func(t *testing.T) {
		p := url.Values{"id": {"abc"}}
		assert.NotEqual(t, Key("videos", p, "tok"), Key("channels", p, "tok"))
	})

	t.Run("CredentialSeparates", func(t *testing.T) {
		p := url.Values{"mine": {"true"}}
		assert.NotEqual(t, Key("subscriptions", p, "alice"), Key("subscriptions", p, "bob"))
	})

	t.Run("NilParams", func(t *testing.T) {
		assert.Equal(t, Key("videos", nil, "tok"), Key("videos", url.Values{}, "tok"))
	})
}

func TestRequestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewRequestCache(nil)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte(`"v"`), 10*time.Minute)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte(`"v"`), got)

	now = now.Add(10*time.Minute + time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRequestCacheDurable(t *testing.T) {
	ctx := context.Background()

	t.Run("PromotesDurableHit", func(t *testing.T) {
		layer := newFakeLayer()
		c := NewRequestCache(layer)

		e := entry{Value: json.RawMessage(`"warm"`), ExpiresAt: time.Now().Add(time.Hour)}
		raw, err := json.Marshal(e)
		require.NoError(t, err)
		layer.data["k"] = raw

		got, ok := c.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte(`"warm"`), []byte(got))

		// second read must come from memory
		layer.getErr = errors.New("down")
		got, ok = c.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte(`"warm"`), []byte(got))
	})

	t.Run("ExpiredDurableEntryIsAbsent", func(t *testing.T) {
		layer := newFakeLayer()
		c := NewRequestCache(layer)

		e := entry{Value: json.RawMessage(`"cold"`), ExpiresAt: time.Now().Add(-time.Minute)}
		raw, err := json.Marshal(e)
		require.NoError(t, err)
		layer.data["k"] = raw

		_, ok := c.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("WriteFailureDegradesToMemory", func(t *testing.T) {
		layer := newFakeLayer()
		layer.setErr = errors.New("redis down")
		c := NewRequestCache(layer)

		c.Set(ctx, "k", []byte(`1`), time.Minute)

		got, ok := c.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte(`1`), got)
		assert.Equal(t, 1, layer.sets)
	})

	t.Run("ReadFailureFallsThrough", func(t *testing.T) {
		layer := newFakeLayer()
		layer.getErr = errors.New("redis down")
		c := NewRequestCache(layer)

		_, ok := c.Get(ctx, "missing")
		assert.False(t, ok)
	})
}
