package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"swynk_messaging/internal/config"
	"swynk_messaging/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterRepo struct {
	counts map[string]int64
	err    error
}

func (r *counterRepo) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.counts[key]++
	return r.counts[key], nil
}

func TestRateLimitService_Allow(t *testing.T) {
	ctx := context.Background()
	repo := &counterRepo{counts: map[string]int64{}}
	svc := NewRateLimitService(repo, config.RateLimitConfig{Requests: 2, Window: time.Minute}, logger.NewNop())

	allowed, remaining, err := svc.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	allowed, remaining, err = svc.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, remaining, err = svc.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, err = svc.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, svc.Limit())
}

func TestRateLimitService_RepositoryError(t *testing.T) {
	repo := &counterRepo{err: errors.New("redis down")}
	svc := NewRateLimitService(repo, config.RateLimitConfig{Requests: 2, Window: time.Minute}, logger.NewNop())

	allowed, _, err := svc.Allow(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, allowed)
}
