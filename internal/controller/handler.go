package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchroom/internal/service/room"
	"github.com/sharetube/watchroom/pkg/ctxlogger"
)

const (
	maxMessageSize = 4096
	pingWriteWait  = 10 * time.Second
)

func (c controller) connectRoom(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	sess := newSession(c.generateTimeBasedId())
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("session_id", sess.id))
	ctx = context.WithValue(ctx, sessionCtxKey, sess)

	if err := c.roomService.ConnectMember(ctx, &room.ConnectMemberParams{
		Conn: conn,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to connect member", "error", err)
		return
	}
	defer c.disconnect(ctx, conn, sess)

	if c.pongWait > 0 {
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(c.pongWait))
		})

		stop := make(chan struct{})
		defer close(stop)
		go c.ping(ctx, conn, stop)
	}

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "connection closed", "error", err)
	}
}

func (c controller) disconnect(ctx context.Context, conn *websocket.Conn, sess *session) {
	// an unbound session leaves both ids empty
	roomId, clientId, _ := sess.Binding()

	if err := c.roomService.DisconnectMember(context.WithoutCancel(ctx), &room.DisconnectMemberParams{
		Conn:     conn,
		RoomId:   roomId,
		ClientId: clientId,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect member", "error", err)
	}
}

// ping keeps a healthy peer answering with pongs until stop is closed or a
// ping fails.
func (c controller) ping(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.pongWait * 9 / 10)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingWriteWait)); err != nil {
				c.logger.DebugContext(ctx, "failed to ping", "error", err)
				return
			}
		}
	}
}
