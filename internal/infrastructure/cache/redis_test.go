package cache

import (
	"context"
	"testing"
	"time"

	"talent-match/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_UnconfiguredBypasses(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, nil)
	ctx := context.Background()

	assert.False(t, r.Available())
	assert.ErrorIs(t, r.Ping(ctx), ErrUnavailable)

	require.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	found, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, r.Close())
}

func TestRedis_NilIsSafe(t *testing.T) {
	var r *Redis
	found, err := r.GetJSON(context.Background(), "k", &struct{}{})
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, r.SetJSON(context.Background(), "k", 1, 0))
}
