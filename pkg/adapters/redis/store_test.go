package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/robobunny/pkg/adapters/redis"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ProgramStore = (*redis.Store)(nil)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	ports.RunProgramStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	ws := &domain.Workspace{Name: "short", Blocks: []domain.BlockSpec{{Type: domain.BlockForwardJump, Value: "1"}}}
	require.NoError(t, store.Save(ctx, "short", ws))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "short")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)

	// The index is pruned against the wall clock, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, "square", &domain.Workspace{Name: "square"}))

	assert.True(t, mr.Exists("custom:app:program:square"), "program key uses the prefix")
	assert.True(t, mr.Exists("custom:app:programs"), "index uses the prefix")

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"square"}, names)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set("robobunny:program:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}
