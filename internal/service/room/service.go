package room

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchroom/internal/domain"
	"github.com/sharetube/watchroom/internal/repository/connection"
)

type iRoomRepo interface {
	GetOrCreate(ctx context.Context, roomId, clientId string, now time.Time) (*domain.Room, bool)
	Get(ctx context.Context, roomId string) (*domain.Room, error)
	SnapshotAdvanced(ctx context.Context, roomId string, now time.Time) (domain.State, error)
	Delete(ctx context.Context, roomId string)
}

type iConnRepo interface {
	Add(*websocket.Conn) error
	Subscribe(conn *websocket.Conn, roomId, clientId string) error
	Remove(*websocket.Conn) error
	HasOtherConn(roomId, clientId string, except *websocket.Conn) bool
	Send(ctx context.Context, conn *websocket.Conn, msg *connection.Message) error
	Broadcast(ctx context.Context, roomId string, except *websocket.Conn, msg *connection.Message) error
}

type Config struct {
	// RoomExp is how long an empty room survives before it is reaped.
	RoomExp time.Duration
	// ReconnectWindow is how long a departed client has to come back before
	// the rest of the room is told.
	ReconnectWindow time.Duration
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	presence *presenceTracker
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, cfg *Config, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		presence: &presenceTracker{
			roomRepo:        roomRepo,
			connRepo:        connRepo,
			roomExp:         cfg.RoomExp,
			reconnectWindow: cfg.ReconnectWindow,
			afterFunc: func(d time.Duration, f func()) {
				time.AfterFunc(d, f)
			},
			logger: logger,
		},
		now:    time.Now,
		logger: logger,
	}
}
