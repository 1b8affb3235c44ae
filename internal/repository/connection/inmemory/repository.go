package inmemory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchroom/internal/repository/connection"
	"github.com/sharetube/watchroom/pkg/wsutils"
)

type member struct {
	writer   *wsutils.ThreadSafeWriter
	roomId   string
	clientId string
}

// repo is the broadcast transport: it tracks every live connection and the
// room group it is subscribed to.
type repo struct {
	conns        map[*websocket.Conn]*member
	rooms        map[string]map[*websocket.Conn]struct{}
	mu           sync.RWMutex
	writeTimeout time.Duration
	logger       *slog.Logger
}

func NewRepo(writeTimeout time.Duration, logger *slog.Logger) *repo {
	return &repo{
		conns:        make(map[*websocket.Conn]*member),
		rooms:        make(map[string]map[*websocket.Conn]struct{}),
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

func (r *repo) Add(conn *websocket.Conn) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "remote_addr", conn.RemoteAddr())
	if _, ok := r.conns[conn]; ok {
		return connection.ErrAlreadyExists
	}

	r.conns[conn] = &member{writer: wsutils.NewThreadSafeWriter(conn, r.writeTimeout)}
	return nil
}

// Subscribe puts conn into the group of roomId on behalf of clientId.
func (r *repo) Subscribe(conn *websocket.Conn, roomId, clientId string) error {
	funcName := "connection.inmemory.Subscribe"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "room_id", roomId, "client_id", clientId)
	m, ok := r.conns[conn]
	if !ok {
		return connection.ErrNotFound
	}

	if m.roomId != "" {
		r.leaveGroup(conn, m.roomId)
	}

	m.roomId = roomId
	m.clientId = clientId
	group, ok := r.rooms[roomId]
	if !ok {
		group = make(map[*websocket.Conn]struct{})
		r.rooms[roomId] = group
	}
	group[conn] = struct{}{}

	return nil
}

func (r *repo) Remove(conn *websocket.Conn) error {
	funcName := "connection.inmemory.Remove"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName)
	m, ok := r.conns[conn]
	if !ok {
		return connection.ErrNotFound
	}

	if m.roomId != "" {
		r.leaveGroup(conn, m.roomId)
	}
	delete(r.conns, conn)

	return nil
}

func (r *repo) leaveGroup(conn *websocket.Conn, roomId string) {
	group := r.rooms[roomId]
	delete(group, conn)
	if len(group) == 0 {
		delete(r.rooms, roomId)
	}
}

// HasOtherConn reports whether clientId is subscribed to roomId through a
// connection other than except.
func (r *repo) HasOtherConn(roomId, clientId string, except *websocket.Conn) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for conn := range r.rooms[roomId] {
		if conn != except && r.conns[conn].clientId == clientId {
			return true
		}
	}

	return false
}

func (r *repo) Send(ctx context.Context, conn *websocket.Conn, msg *connection.Message) error {
	r.mu.RLock()
	m, ok := r.conns[conn]
	r.mu.RUnlock()
	if !ok {
		return connection.ErrNotFound
	}

	if err := m.writer.WriteJSON(msg); err != nil {
		r.logger.WarnContext(ctx, "failed to write message", "type", msg.Type, "error", err)
		return fmt.Errorf("failed to write %s: %w", msg.Type, err)
	}

	return nil
}

// Broadcast writes msg to every connection subscribed to roomId except the
// given one. A nil except reaches the whole group.
func (r *repo) Broadcast(ctx context.Context, roomId string, except *websocket.Conn, msg *connection.Message) error {
	r.mu.RLock()
	writers := make([]*wsutils.ThreadSafeWriter, 0, len(r.rooms[roomId]))
	for conn := range r.rooms[roomId] {
		if conn != except {
			writers = append(writers, r.conns[conn].writer)
		}
	}
	r.mu.RUnlock()

	var errs []error
	for _, writer := range writers {
		if err := writer.WriteJSON(msg); err != nil {
			r.logger.WarnContext(ctx, "failed to broadcast message", "type", msg.Type, "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *repo) RoomConnsCount(roomId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[roomId])
}
