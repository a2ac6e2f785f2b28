package roundstore

import (
	"context"
	"testing"
	"time"

	"BlockJack/internal/game/engine"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		RoundID: "round-1",
		Snapshot: engine.Snapshot{
			Deck:       []string{"Two of Clubs", "Three of Clubs"},
			PlayerHand: []string{"Ten of Spades", "Nine of Spades"},
			DealerHand: []string{"Ten of Hearts", "Six of Hearts"},
			GameOver:   false,
		},
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// 两种实现走同一套生命周期
func testLifecycle(t *testing.T, store Store) {
	ctx := context.Background()

	rec, err := store.Load(ctx, "0xA")
	require.NoError(t, err)
	assert.Nil(t, rec, "no round yet")

	want := sampleRecord()
	require.NoError(t, store.Save(ctx, "0xA", want))

	got, err := store.Load(ctx, "0xA")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	// 其他玩家互不影响
	other, err := store.Load(ctx, "0xB")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, store.Delete(ctx, "0xA"))
	got, err = store.Load(ctx, "0xA")
	require.NoError(t, err)
	assert.Nil(t, got)

	// 重复删除不报错
	assert.NoError(t, store.Delete(ctx, "0xA"))
}

func Test_MemoryStore_Lifecycle(t *testing.T) {
	testLifecycle(t, NewMemoryStore())
}

func Test_MemoryStore_DoesNotAlias(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rec := sampleRecord()
	require.NoError(t, store.Save(ctx, "0xA", rec))

	rec.Snapshot.PlayerHand[0] = "Ace of Spades"
	got, err := store.Load(ctx, "0xA")
	require.NoError(t, err)
	assert.Equal(t, "Ten of Spades", got.Snapshot.PlayerHand[0])
}

func Test_RedisStore_Lifecycle(t *testing.T) {
	_, rdb := newRedis(t)
	testLifecycle(t, NewRedisStore(rdb, time.Hour))
}

func Test_RedisStore_KeyAndTTL(t *testing.T) {
	mr, rdb := newRedis(t)
	store := NewRedisStore(rdb, 30*time.Minute)
	require.NoError(t, store.Save(context.Background(), "0xA", sampleRecord()))

	assert.True(t, mr.Exists("bj:round:0xA"))
	assert.Equal(t, 30*time.Minute, mr.TTL("bj:round:0xA"))

	mr.FastForward(31 * time.Minute)
	rec, err := store.Load(context.Background(), "0xA")
	require.NoError(t, err)
	assert.Nil(t, rec, "idle round should expire")
}

func Test_RedisStore_EmptyDeckSurvives(t *testing.T) {
	_, rdb := newRedis(t)
	store := NewRedisStore(rdb, 0)
	rec := sampleRecord()
	rec.Snapshot.Deck = nil
	require.NoError(t, store.Save(context.Background(), "0xA", rec))

	got, err := store.Load(context.Background(), "0xA")
	require.NoError(t, err)
	assert.Empty(t, got.Snapshot.Deck)
}

func Test_RedisStore_MissingFields(t *testing.T) {
	mr, rdb := newRedis(t)
	store := NewRedisStore(rdb, 0)

	cases := map[string]string{
		"no snapshot":    `{"round_id":"r"}`,
		"no deck":        `{"snapshot":{"player_hand":[],"dealer_hand":[],"game_over":false}}`,
		"no player hand": `{"snapshot":{"deck":[],"dealer_hand":[],"game_over":false}}`,
		"no dealer hand": `{"snapshot":{"deck":[],"player_hand":[],"game_over":false}}`,
		"no game over":   `{"snapshot":{"deck":[],"player_hand":[],"dealer_hand":[]}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, mr.Set("bj:round:0xA", raw))
			_, err := store.Load(context.Background(), "0xA")
			assert.ErrorIs(t, err, engine.ErrIncompleteSnapshot)
		})
	}

	require.NoError(t, mr.Set("bj:round:0xA", "not json"))
	_, err := store.Load(context.Background(), "0xA")
	assert.ErrorIs(t, err, engine.ErrCorruptSnapshot)
}
