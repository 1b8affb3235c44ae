package room

import (
	"context"
	"fmt"

	"github.com/sharetube/watchroom/internal/domain"
	roomrepo "github.com/sharetube/watchroom/internal/repository/room"
)

// withRoom runs fn with the lock of roomId held. A room that was reaped
// after the lookup is reported as not found.
func (s service) withRoom(ctx context.Context, roomId string, fn func(*domain.Room) error) error {
	r, err := s.roomRepo.Get(ctx, roomId)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	r.Lock()
	defer r.Unlock()

	if r.IsRemoved() {
		return fmt.Errorf("failed to get room: %w", roomrepo.ErrRoomNotFound)
	}

	return fn(r)
}
