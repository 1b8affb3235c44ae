package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMalformedMessage   = errors.New("malformed message")
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, payload T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

// ErrorHandler receives every error of a single message. The connection is
// kept open after it returns.
type ErrorHandler func(ctx context.Context, conn *websocket.Conn, err error)

type route struct {
	decode  func(json.RawMessage) (any, error)
	handler HandlerFunc[any]
}

type WSRouter struct {
	routes       map[string]route
	middlewares  []Middleware
	errorHandler ErrorHandler
	readTimeout  time.Duration
}

func New() *WSRouter {
	return &WSRouter{
		routes:       make(map[string]route),
		errorHandler: func(context.Context, *websocket.Conn, error) {},
	}
}

func (r *WSRouter) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

func (r *WSRouter) OnError(handler ErrorHandler) {
	r.errorHandler = handler
}

// SetReadTimeout bounds the wait for each frame. ServeConn returns a timeout
// error once a peer stays silent longer than d. Zero waits forever.
func (r *WSRouter) SetReadTimeout(d time.Duration) {
	r.readTimeout = d
}

// Handle registers handler for messageType. The payload is decoded into T; a
// missing or null payload leaves T at its zero value.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = route{
		decode: func(raw json.RawMessage) (any, error) {
			var payload T
			if len(raw) == 0 || string(raw) == "null" {
				return payload, nil
			}

			if err := json.Unmarshal(raw, &payload); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
			}

			return payload, nil
		},
		handler: func(ctx context.Context, conn *websocket.Conn, payload any) error {
			return handler(ctx, conn, payload.(T))
		},
	}
}

func (r *WSRouter) chain(handler HandlerFunc[any]) HandlerFunc[any] {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}

	return handler
}

// ServeConn reads messages from conn until it fails and dispatches them.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		if r.readTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(r.readTimeout)); err != nil {
				return err
			}
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			r.errorHandler(ctx, conn, fmt.Errorf("%w: %w", ErrMalformedMessage, err))
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)

		rt, exists := r.routes[msg.Type]
		if !exists {
			r.errorHandler(msgCtx, conn, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type))
			continue
		}

		payload, err := rt.decode(msg.Payload)
		if err != nil {
			r.errorHandler(msgCtx, conn, err)
			continue
		}

		if err := r.chain(rt.handler)(msgCtx, conn, payload); err != nil {
			r.errorHandler(msgCtx, conn, err)
		}
	}
}
