package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/emostate/internal/states"
)

func summaryAt(i int, id states.StateID) Summary {
	return Summary{
		Timestamp: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
		StateID:   id,
		StateName: states.Name(id),
	}
}

// exerciseStore runs the behaviour every driver must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	h, err := s.History(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, h)

	for i := 0; i < 12; i++ {
		require.NoError(t, s.Append(ctx, "abc", summaryAt(i, states.StateID(i+1))))
	}
	require.NoError(t, s.Append(ctx, "other", summaryAt(0, states.StateJoy)))

	h, err = s.History(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, h, MaxHistory)
	assert.Equal(t, states.StateID(3), h[0].StateID, "two oldest entries evicted")
	assert.Equal(t, states.StateID(12), h[len(h)-1].StateID)
	assert.True(t, h[0].Timestamp.Before(h[1].Timestamp), "oldest first")

	h, err = s.History(ctx, "other")
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, states.StateJoy, h[0].StateID)
}

func TestMemoryStore(t *testing.T) {
	s, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	err = s.Append(context.Background(), "abc", summaryAt(0, 1))
	assert.ErrorIs(t, err, ErrInvalidConfig, "append after close")
}

func TestMemoryStoreHistoryIsCopy(t *testing.T) {
	s := NewMemoryStore(3, 0)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "x", summaryAt(0, states.StateJoy)))

	h, _ := s.History(ctx, "x")
	h[0].StateID = states.StateAnger

	h2, _ := s.History(ctx, "x")
	assert.Equal(t, states.StateJoy, h2[0].StateID)
}

func TestMemoryStoreConcurrentSessions(t *testing.T) {
	s := NewMemoryStore(MaxHistory, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			for j := 0; j < 15; j++ {
				_ = s.Append(ctx, id, summaryAt(j, states.StateJoy))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
	for i := 0; i < 20; i++ {
		h, _ := s.History(ctx, fmt.Sprintf("s-%d", i))
		assert.Len(t, h, MaxHistory)
	}
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	s, err := NewStore(StoreTypeMemory, WithTTL(250*time.Millisecond))
	require.NoError(t, err)
	mem := s.(*MemoryStore)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		require.NoError(t, s.Append(ctx, fmt.Sprintf("s-%d", i), summaryAt(0, states.StateJoy)))
	}
	assert.Equal(t, 200, mem.Len())

	time.Sleep(350 * time.Millisecond)
	assert.Equal(t, 0, mem.Len(), "idle sessions dropped")

	h, err := s.History(ctx, "s-0")
	require.NoError(t, err)
	assert.Empty(t, h)

	// an append after the ttl sweeps the rest without calling Len
	require.NoError(t, s.Append(ctx, "fresh", summaryAt(0, states.StateLove)))
	assert.Equal(t, 1, mem.Len())
}

func TestMemoryStoreAppendRefreshesExpiry(t *testing.T) {
	s := NewMemoryStore(MaxHistory, 200*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Append(ctx, "busy", summaryAt(i, states.StateJoy)))
		time.Sleep(30 * time.Millisecond)
	}
	h, err := s.History(ctx, "busy")
	require.NoError(t, err)
	assert.Len(t, h, 4)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s, err := NewStore(StoreTypeRedis, WithRedisClient(client), WithTTL(time.Hour))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	s := NewRedisStore(client, 0, 0)
	defer s.Close()
	mr.Close()

	ctx := context.Background()
	assert.Error(t, s.Append(ctx, "abc", summaryAt(0, 1)))
	_, err := s.History(ctx, "abc")
	assert.Error(t, err)
}

func TestRedisStoreCorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, 0, 0)
	defer s.Close()

	_, err := mr.Push("session:bad", "not-json")
	require.NoError(t, err)
	_, err = s.History(context.Background(), "bad")
	assert.Error(t, err)
}

func TestNewStoreErrors(t *testing.T) {
	_, err := NewStore(StoreTypeRedis)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewStore("postgres")
	assert.ErrorIs(t, err, ErrInvalidStoreType)

	_, err = NewStore(StoreTypeMemory, WithMaxHistory(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
