package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *RedisStorage {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rs, err := NewRedisStorage("redis://"+mr.Addr(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })
	return rs
}

func TestNewRedisStorageBadURL(t *testing.T) {
	_, err := NewRedisStorage("not-a-url", testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis URL")
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	rs := setupRedis(t)
	id := uuid.New()

	require.NoError(t, rs.Ping(ctx))

	snapshot, err := rs.LoadState(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, snapshot, "a missing save is not an error")

	require.NoError(t, rs.SaveState(ctx, id, "0 0\n1 2 3\n"))
	snapshot, err = rs.LoadState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "0 0\n1 2 3\n", snapshot)

	// Sessions do not bleed into each other.
	other, err := rs.LoadState(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, rs.DeleteState(ctx, id))
	snapshot, err = rs.LoadState(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestRedisStorageExpiry(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rs, err := NewRedisStorage("redis://"+mr.Addr(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })

	id := uuid.New()
	require.NoError(t, rs.SaveState(ctx, id, "snapshot"))

	mr.FastForward(saveTTL + 1)
	snapshot, err := rs.LoadState(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, snapshot, "expired saves read as missing")
}
