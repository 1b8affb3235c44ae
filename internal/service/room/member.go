package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchroom/internal/domain"
	"github.com/sharetube/watchroom/internal/repository/connection"
	roomrepo "github.com/sharetube/watchroom/internal/repository/room"
)

type ConnectMemberParams struct {
	Conn *websocket.Conn
}

func (s service) ConnectMember(ctx context.Context, params *ConnectMemberParams) error {
	if err := s.connRepo.Add(params.Conn); err != nil {
		s.logger.InfoContext(ctx, "failed to connect member", "error", err)
		return err
	}

	return nil
}

type InitParams struct {
	Conn     *websocket.Conn
	RoomId   string
	ClientId string
}

type InitResponse struct {
	State domain.State
	IsNew bool
}

// Init binds a connection to a room, creating the room on first use, and
// sends the joining connection the current room state.
func (s service) Init(ctx context.Context, params *InitParams) (InitResponse, error) {
	now := s.now()

	var (
		r     *domain.Room
		isNew bool
	)
	for {
		r, isNew = s.roomRepo.GetOrCreate(ctx, params.RoomId, params.ClientId, now)
		r.Lock()
		if !r.IsRemoved() {
			break
		}
		r.Unlock()
	}
	defer r.Unlock()

	// the joining connection is subscribed after the join broadcast so it
	// only reaches the rest of the room
	if !isNew {
		s.presence.Join(ctx, r, params.ClientId, now)
	}

	if err := s.connRepo.Subscribe(params.Conn, params.RoomId, params.ClientId); err != nil {
		return InitResponse{}, fmt.Errorf("failed to subscribe conn: %w", err)
	}

	state, err := s.roomRepo.SnapshotAdvanced(ctx, params.RoomId, now)
	if err != nil {
		return InitResponse{}, fmt.Errorf("failed to get room state: %w", err)
	}

	if err := s.connRepo.Send(ctx, params.Conn, &connection.Message{
		Type:    MessageTypeState,
		Payload: state,
	}); err != nil {
		return InitResponse{}, fmt.Errorf("failed to send state: %w", err)
	}

	return InitResponse{
		State: state,
		IsNew: isNew,
	}, nil
}

type DisconnectMemberParams struct {
	Conn *websocket.Conn
	// RoomId and ClientId are empty for a connection that never sent init.
	RoomId   string
	ClientId string
}

func (s service) DisconnectMember(ctx context.Context, params *DisconnectMemberParams) error {
	if params.RoomId == "" {
		if err := s.connRepo.Remove(params.Conn); err != nil {
			s.logger.InfoContext(ctx, "failed to remove conn", "error", err)
		}
		return nil
	}

	err := s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		if err := s.connRepo.Remove(params.Conn); err != nil {
			s.logger.InfoContext(ctx, "failed to remove conn", "error", err)
		}

		if s.connRepo.HasOtherConn(params.RoomId, params.ClientId, params.Conn) {
			s.logger.InfoContext(ctx, "client still connected through another conn")
			return nil
		}

		s.presence.Leave(ctx, r, params.ClientId)
		return nil
	})
	if err != nil {
		if !errors.Is(err, roomrepo.ErrRoomNotFound) {
			return err
		}

		s.logger.InfoContext(ctx, "disconnect from missing room", "error", err)
		if err := s.connRepo.Remove(params.Conn); err != nil {
			s.logger.DebugContext(ctx, "failed to remove conn", "error", err)
		}
	}

	return nil
}
