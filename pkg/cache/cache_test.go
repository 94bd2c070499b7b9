package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeenko/carrymon/pkg/config"
)

type cachedView struct {
	Code  string  `json:"code"`
	Yield float64 `json:"yield"`
}

func newMiniCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewWithClient(rdb, ttl), mr
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newMiniCache(t, time.Minute)
	ctx := context.Background()

	want := []cachedView{{Code: "GAZR-9.25", Yield: 43.63}}
	require.NoError(t, c.Set(ctx, "spreads/latest", want))

	var got []cachedView
	hit, err := c.Get(ctx, "spreads/latest", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c, _ := newMiniCache(t, time.Minute)

	var got []cachedView
	hit, err := c.Get(context.Background(), "nothing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, got)
}

func TestCache_TTLExpires(t *testing.T) {
	c, mr := newMiniCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "spreads/latest", []cachedView{{Code: "X"}}))
	mr.FastForward(time.Minute)

	var got []cachedView
	hit, err := c.Get(ctx, "spreads/latest", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_Disabled(t *testing.T) {
	c, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "anything", []cachedView{{Code: "X"}}))

	var got []cachedView
	hit, err := c.Get(ctx, "anything", &got)
	require.NoError(t, err)
	assert.False(t, hit, "disabled cache never hits")
	require.NoError(t, c.Close())
}
