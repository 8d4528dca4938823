package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepsakes/apperror"
	"keepsakes/cache"
	"keepsakes/dto/req"
	"keepsakes/entity"
	"keepsakes/testutil"
)

func TestBlock_IsSymmetric(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	blocked, err := f.blocks.IsBlocked(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, f.blocks.Block(ctx, alice.ID, bob.ID))

	for _, pair := range [][2]string{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		blocked, err := f.blocks.IsBlocked(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, blocked)
	}
}

func TestBlock_IdempotentAndValidated(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	require.NoError(t, f.blocks.Block(ctx, alice.ID, bob.ID))
	require.NoError(t, f.blocks.Block(ctx, alice.ID, bob.ID))

	var count int64
	require.NoError(t, f.db.Model(&entity.UserBlock{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, f.blocks.Block(ctx, alice.ID, alice.ID), apperror.ErrSelfBlock)
	assert.ErrorIs(t, f.blocks.Unblock(ctx, alice.ID, alice.ID), apperror.ErrSelfUnblock)
	assert.True(t, apperror.Is(f.blocks.Block(ctx, alice.ID, "ghost"), apperror.CodeNotFound))
	assert.ErrorIs(t, f.blocks.Block(ctx, "", bob.ID), apperror.ErrNotAuthenticated)
}

func TestUnblock_OnlyRemovesOwnDirection(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	require.NoError(t, f.blocks.Block(ctx, alice.ID, bob.ID))
	require.NoError(t, f.blocks.Block(ctx, bob.ID, alice.ID))

	require.NoError(t, f.blocks.Unblock(ctx, alice.ID, bob.ID))
	blocked, err := f.blocks.IsBlocked(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, f.blocks.Unblock(ctx, bob.ID, alice.ID))
	blocked, err = f.blocks.IsBlocked(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, blocked)

	// absent pair is a no-op
	require.NoError(t, f.blocks.Unblock(ctx, bob.ID, alice.ID))
}

func TestBlockStatus(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	require.NoError(t, f.blocks.Block(ctx, bob.ID, alice.ID))

	status, err := f.blocks.Status(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, status.IsBlocked)
	assert.False(t, status.HasBlocked)

	status, err = f.blocks.Status(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, status.IsBlocked)
	assert.True(t, status.HasBlocked)
}

func TestBlock_CacheIsInvalidated(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	blockCache := cache.NewBlockCache(client, time.Minute)

	f := newFixture(t, blockCache)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	blocked, err := f.blocks.IsBlocked(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, blocked)
	_, found, err := blockCache.Get(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, f.blocks.Block(ctx, bob.ID, alice.ID))
	blocked, err = f.blocks.IsBlocked(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, f.blocks.Unblock(ctx, bob.ID, alice.ID))
	blocked, err = f.blocks.IsBlocked(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestBlock_CacheOutageFallsBackToDatabase(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t, cache.NewBlockCache(client, time.Minute))
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)
	require.NoError(t, f.blocks.Block(ctx, alice.ID, bob.ID))

	server.Close()

	blocked, err := f.blocks.IsBlocked(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, blocked)
}

// racingCache runs beforeFill once, after IsBlocked has read the database
// and before it fills the cache.
type racingCache struct {
	*cache.BlockCache
	beforeFill func()
	once       sync.Once
}

func (c *racingCache) Fill(ctx context.Context, userAID, userBID string, blocked bool) error {
	c.once.Do(func() {
		if c.beforeFill != nil {
			c.beforeFill()
		}
	})
	return c.BlockCache.Fill(ctx, userAID, userBID, blocked)
}

func TestBlock_ConcurrentLookupCannotCacheStaleStatus(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	racing := &racingCache{BlockCache: cache.NewBlockCache(client, time.Minute)}

	f := newFixture(t, racing)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)
	racing.beforeFill = func() {
		require.NoError(t, f.blocks.Block(ctx, bob.ID, alice.ID))
	}

	// the lookup read the database before the block was committed
	blocked, err := f.blocks.IsBlocked(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = f.blocks.IsBlocked(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	_, err = f.messages.SendMessage(ctx, alice.ID, &req.SendMessageRequest{RecipientID: bob.ID, Content: "still there?"})
	assert.ErrorIs(t, err, apperror.ErrMessagingBlocked)

	var count int64
	require.NoError(t, f.db.Model(&entity.DirectMessage{}).Count(&count).Error)
	assert.Zero(t, count)
}
