package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahunallar/braid/pkg/adapters/redis"
)

func newTestLocker(t *testing.T) *redis.Locker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewLocker(client, "braid:")
}

func TestLocker_AcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	locker := newTestLocker(t)

	unlock, err := locker.Lock(ctx, "sess", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	// Released locks are immediately re-acquirable.
	unlock, err = locker.Lock(ctx, "sess", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_BlocksSecondHolder(t *testing.T) {
	ctx := context.Background()
	locker := newTestLocker(t)

	unlock, err := locker.Lock(ctx, "sess", time.Minute)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(waitCtx, "sess", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock, err = locker.Lock(ctx, "sess", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_IndependentKeys(t *testing.T) {
	ctx := context.Background()
	locker := newTestLocker(t)

	unlockA, err := locker.Lock(ctx, "a", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlockA(ctx) }()

	unlockB, err := locker.Lock(ctx, "b", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}
