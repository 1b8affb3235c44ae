package room

import (
	"context"
	"log/slog"
	"time"

	"github.com/sharetube/watchroom/internal/domain"
	"github.com/sharetube/watchroom/internal/repository/connection"
)

// presenceTracker maintains room participants and the two deferred checks
// that follow a departure. Timers are never cancelled; their callbacks
// re-read the room and act on live state only.
type presenceTracker struct {
	roomRepo        iRoomRepo
	connRepo        iConnRepo
	roomExp         time.Duration
	reconnectWindow time.Duration
	afterFunc       func(time.Duration, func())
	logger          *slog.Logger
}

// Join adds clientId to r and tells the room. The caller holds the room lock.
func (p *presenceTracker) Join(ctx context.Context, r *domain.Room, clientId string, now time.Time) bool {
	if !r.Participants.Add(clientId) {
		return false
	}
	// rebase without losing the time a playing room has advanced
	r.Advance(now)

	p.broadcastParticipants(ctx, r)
	return true
}

// Leave removes clientId from r and schedules either the reap of the now
// empty room or the reconnect check. The caller holds the room lock.
func (p *presenceTracker) Leave(ctx context.Context, r *domain.Room, clientId string) {
	r.Participants.Remove(clientId)

	roomId := r.Id
	timerCtx := context.WithoutCancel(ctx)
	if r.IsEmpty() {
		p.afterFunc(p.roomExp, func() {
			p.reapIfEmpty(timerCtx, roomId)
		})
		return
	}

	p.afterFunc(p.reconnectWindow, func() {
		p.notifyIfGone(timerCtx, roomId, clientId)
	})
}

func (p *presenceTracker) reapIfEmpty(ctx context.Context, roomId string) {
	r, err := p.roomRepo.Get(ctx, roomId)
	if err != nil {
		p.logger.DebugContext(ctx, "room already gone", "room_id", roomId)
		return
	}

	r.Lock()
	defer r.Unlock()

	if r.IsRemoved() || !r.IsEmpty() {
		return
	}

	r.MarkRemoved()
	p.roomRepo.Delete(ctx, roomId)
	p.logger.InfoContext(ctx, "room reaped", "room_id", roomId)
}

func (p *presenceTracker) notifyIfGone(ctx context.Context, roomId, clientId string) {
	r, err := p.roomRepo.Get(ctx, roomId)
	if err != nil {
		p.logger.DebugContext(ctx, "room already gone", "room_id", roomId)
		return
	}

	r.Lock()
	defer r.Unlock()

	if r.IsRemoved() || r.Participants.Contains(clientId) {
		return
	}

	p.broadcastParticipants(ctx, r)
}

func (p *presenceTracker) broadcastParticipants(ctx context.Context, r *domain.Room) {
	if err := p.connRepo.Broadcast(ctx, r.Id, nil, &connection.Message{
		Type:    MessageTypeParticipants,
		Payload: r.Participants.AsList(),
	}); err != nil {
		p.logger.WarnContext(ctx, "failed to broadcast participants", "room_id", r.Id, "error", err)
	}
}
