package session

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/store-leaderboard-api/internal/config"
)

func newTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test:session_epoch"), mr
}

func TestRedisStore_CurrentEpochWithoutKey(t *testing.T) {
	store, _ := newTestStore(t)

	epoch, err := store.CurrentEpoch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), epoch)
}

func TestRedisStore_RevokeAllAdvancesEpoch(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	epoch, err := store.RevokeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), epoch)

	epoch, err = store.RevokeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), epoch)

	current, err := store.CurrentEpoch(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), current)

	value, err := mr.Get("test:session_epoch")
	require.NoError(t, err)
	assert.Equal(t, "2", value)
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.CurrentEpoch(context.Background())
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.Redis{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisClient(context.Background(), config.Redis{Addr: addr})
	assert.Error(t, err)
}
