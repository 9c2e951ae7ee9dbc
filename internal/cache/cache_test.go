// file: internal/cache/cache_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T, maxKeys int) Cache {
	t.Helper()
	c, err := New(&Config{
		Provider:        "memory",
		TTL:             time.Minute,
		MaxKeys:         maxKeys,
		CleanupInterval: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := newTestCache(t, 100)
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.True(t, c.Exists(ctx, "k"))

	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, c.Exists(ctx, "k"))
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newTestCache(t, 100)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(ctx, "short")
	assert.False(t, ok)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newTestCache(t, 2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
	time.Sleep(time.Millisecond)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get(ctx, "a")
	require.True(t, ok)
	time.Sleep(time.Millisecond)

	require.NoError(t, c.Set(ctx, "c", []byte("3"), time.Minute))
	assert.True(t, c.Exists(ctx, "a"))
	assert.False(t, c.Exists(ctx, "b"))
	assert.True(t, c.Exists(ctx, "c"))
}

func TestMemoryCache_Clear(t *testing.T) {
	c := newTestCache(t, 100)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, c.Clear(ctx))
	assert.False(t, c.Exists(ctx, "a"))
	assert.False(t, c.Exists(ctx, "b"))
}

func TestJSONHelpers(t *testing.T) {
	c := newTestCache(t, 100)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var out payload
	assert.False(t, GetJSON(ctx, c, "p", &out))

	require.NoError(t, SetJSON(ctx, c, "p", payload{Name: "catalog", Count: 18}, time.Minute))
	require.True(t, GetJSON(ctx, c, "p", &out))
	assert.Equal(t, "catalog", out.Name)
	assert.Equal(t, 18, out.Count)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(&Config{Provider: "carrier-pigeon"}, zap.NewNop())
	require.Error(t, err)
}
