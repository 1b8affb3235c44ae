package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchroom/internal/domain"
	"github.com/sharetube/watchroom/internal/repository/connection"
)

type UpdateVideoParams struct {
	SenderConn *websocket.Conn
	RoomId     string
	VideoId    string
}

func (s service) UpdateVideo(ctx context.Context, params *UpdateVideoParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		r.SetVideo(params.VideoId, s.now())

		if err := s.connRepo.Broadcast(ctx, r.Id, params.SenderConn, &connection.Message{
			Type:    MessageTypeVideo,
			Payload: params.VideoId,
		}); err != nil {
			return fmt.Errorf("failed to broadcast video: %w", err)
		}

		return nil
	})
}

type UpdatePlayerStateParams struct {
	SenderConn *websocket.Conn
	RoomId     string
}

func (s service) Play(ctx context.Context, params *UpdatePlayerStateParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		r.Play(s.now())

		if err := s.connRepo.Broadcast(ctx, r.Id, params.SenderConn, &connection.Message{
			Type: MessageTypePlay,
		}); err != nil {
			return fmt.Errorf("failed to broadcast play: %w", err)
		}

		return nil
	})
}

func (s service) Pause(ctx context.Context, params *UpdatePlayerStateParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		r.Pause(s.now())

		if err := s.connRepo.Broadcast(ctx, r.Id, params.SenderConn, &connection.Message{
			Type: MessageTypePause,
		}); err != nil {
			return fmt.Errorf("failed to broadcast pause: %w", err)
		}

		return nil
	})
}

type SeekParams struct {
	SenderConn *websocket.Conn
	RoomId     string
	Position   float64
}

func (s service) Seek(ctx context.Context, params *SeekParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		r.Seek(params.Position, s.now())

		if err := s.connRepo.Broadcast(ctx, r.Id, params.SenderConn, &connection.Message{
			Type:    MessageTypeSeek,
			Payload: params.Position,
		}); err != nil {
			return fmt.Errorf("failed to broadcast seek: %w", err)
		}

		return nil
	})
}
