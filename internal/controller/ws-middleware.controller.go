package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchroom/pkg/ctxlogger"
	"github.com/sharetube/watchroom/pkg/wsrouter"
)

func (c controller) wsRequestIdWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("ws_request_id", c.generateTimeBasedId()))
			return next(ctx, conn, payload)
		}
	}
}

// bindingWSMw tags records with the room and client of a bound session.
func (c controller) bindingWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			if roomId, clientId, err := c.getBindingFromCtx(ctx); err == nil {
				ctx = ctxlogger.AppendCtx(ctx, slog.String("room_id", roomId))
				ctx = ctxlogger.AppendCtx(ctx, slog.String("client_id", clientId))
			}
			return next(ctx, conn, payload)
		}
	}
}

func (c controller) loggerWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
			c.logger.DebugContext(ctx, "websocket message received", "payload", payload)

			start := time.Now()

			err := next(ctx, conn, payload)

			c.logger.DebugContext(ctx, "websocket message handled",
				"processing_time_us", time.Since(start).Microseconds(),
			)

			return err
		}
	}
}

// handleWSError drops the offending message and keeps the connection.
func (c controller) handleWSError(ctx context.Context, _ *websocket.Conn, err error) {
	if messageType := wsrouter.GetMessageTypeFromCtx(ctx); messageType != "" {
		ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", messageType))
	}
	c.logger.InfoContext(ctx, "websocket message dropped", "error", err)
}
