package inmemory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sharetube/watchroom/internal/repository/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(slog.Default())
	now := time.Unix(1000, 0)

	created, isNew := repo.GetOrCreate(ctx, "r1", "a", now)
	require.True(t, isNew)
	assert.Equal(t, "a", created.MasterClientId)
	assert.Equal(t, []string{"a"}, created.Participants.AsList())
	assert.Nil(t, created.VideoId)
	assert.Equal(t, now, created.LastUpdate)

	existing, isNew := repo.GetOrCreate(ctx, "r1", "b", now.Add(time.Second))
	require.False(t, isNew)
	assert.Same(t, created, existing)
	assert.Equal(t, []string{"a"}, existing.Participants.AsList(), "getOrCreate must not join")
	assert.Equal(t, now, existing.LastUpdate)
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(slog.Default())

	_, err := repo.Get(ctx, "r1")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	repo.GetOrCreate(ctx, "r1", "a", time.Now())
	_, err = repo.Get(ctx, "r1")
	require.NoError(t, err)

	repo.Delete(ctx, "r1")
	_, err = repo.Get(ctx, "r1")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	assert.NotPanics(t, func() { repo.Delete(ctx, "r1") })
	assert.Equal(t, 0, repo.Count())
}

func TestSnapshotAdvanced(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(slog.Default())
	t0 := time.Unix(1000, 0)

	r, _ := repo.GetOrCreate(ctx, "r1", "a", t0)
	r.Seek(10, t0)
	r.Playing = true

	state, err := repo.SnapshotAdvanced(ctx, "r1", t0.Add(6*time.Second))
	require.NoError(t, err)
	assert.InDelta(t, 16.0, state.Timestamp, 1e-9)
	assert.InDelta(t, 16.0, r.PositionSeconds, 1e-9, "advance is applied in place")
	assert.Equal(t, t0.Add(6*time.Second), r.LastUpdate)

	r.Pause(t0.Add(6 * time.Second))
	state, err = repo.SnapshotAdvanced(ctx, "r1", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 16.0, state.Timestamp, 1e-9)
	assert.Equal(t, t0.Add(6*time.Second), r.LastUpdate, "paused room is not rebased")

	_, err = repo.SnapshotAdvanced(ctx, "missing", t0)
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestConcurrentRooms(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roomId := fmt.Sprintf("r%d", i%5)
			r, _ := repo.GetOrCreate(ctx, roomId, fmt.Sprintf("c%d", i), time.Now())
			r.Lock()
			r.Participants.Add(fmt.Sprintf("c%d", i))
			r.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, repo.Count())
	total := 0
	for i := 0; i < 5; i++ {
		r, err := repo.Get(ctx, fmt.Sprintf("r%d", i))
		require.NoError(t, err)
		total += r.Participants.Length()
	}
	assert.Equal(t, 50, total)
}
