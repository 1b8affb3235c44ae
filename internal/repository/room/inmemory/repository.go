package inmemory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sharetube/watchroom/internal/domain"
	"github.com/sharetube/watchroom/internal/repository/room"
)

// repo owns every live room of the process. The map lock only guards
// membership of the map; room fields are guarded by each room's own lock.
type repo struct {
	rooms  map[string]*domain.Room
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		rooms:  make(map[string]*domain.Room),
		logger: logger,
	}
}

// GetOrCreate returns the room with roomId, creating it with clientId as its
// only participant and master if it does not exist yet.
func (r *repo) GetOrCreate(ctx context.Context, roomId, clientId string, now time.Time) (*domain.Room, bool) {
	funcName := "room.inmemory.GetOrCreate"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.DebugContext(ctx, funcName, "room_id", roomId, "client_id", clientId)
	if existing, ok := r.rooms[roomId]; ok {
		return existing, false
	}

	created := domain.NewRoom(roomId, clientId, now)
	r.rooms[roomId] = created

	r.logger.InfoContext(ctx, "room created", "room_id", roomId, "master", clientId)
	return created, true
}

func (r *repo) Get(ctx context.Context, roomId string) (*domain.Room, error) {
	funcName := "room.inmemory.Get"
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.logger.DebugContext(ctx, funcName, "room_id", roomId)
	existing, ok := r.rooms[roomId]
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	return existing, nil
}

// SnapshotAdvanced pulls a playing room forward to now in place and returns
// its state. The caller must hold the room lock.
func (r *repo) SnapshotAdvanced(ctx context.Context, roomId string, now time.Time) (domain.State, error) {
	existing, err := r.Get(ctx, roomId)
	if err != nil {
		return domain.State{}, err
	}

	if existing.Playing {
		existing.Advance(now)
	}

	return existing.State(), nil
}

// Delete removes roomId. Deleting an absent room is a no-op.
func (r *repo) Delete(ctx context.Context, roomId string) {
	funcName := "room.inmemory.Delete"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.DebugContext(ctx, funcName, "room_id", roomId)
	delete(r.rooms, roomId)
}

func (r *repo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}
