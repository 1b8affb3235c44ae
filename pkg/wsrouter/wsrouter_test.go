package wsrouter

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	calls  []string
	errors []error
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) addErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

func (r *recorder) snapshot() ([]string, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...), append([]error(nil), r.errors...)
}

type greeting struct {
	Name string `json:"name"`
}

func serve(t *testing.T, router *WSRouter) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		router.ServeConn(context.Background(), conn)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func TestServeConn(t *testing.T) {
	rec := &recorder{}
	router := New()
	router.OnError(func(_ context.Context, _ *websocket.Conn, err error) {
		rec.addErr(err)
	})
	router.Use(func(next HandlerFunc[any]) HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			rec.add("mw:" + GetMessageTypeFromCtx(ctx))
			return next(ctx, conn, payload)
		}
	})

	Handle(router, "greet", func(_ context.Context, _ *websocket.Conn, payload greeting) error {
		rec.add("greet:" + payload.Name)
		return nil
	})
	Handle(router, "seek", func(_ context.Context, _ *websocket.Conn, payload float64) error {
		if payload < 0 {
			return errors.New("negative")
		}
		rec.add("seek")
		return nil
	})
	Handle(router, "play", func(_ context.Context, _ *websocket.Conn, payload struct{}) error {
		rec.add("play")
		return nil
	})

	client := serve(t, router)
	for _, frame := range []string{
		`{"type":"greet","payload":{"name":"bob"}}`,
		`{"type":"play"}`,
		`{"type":"seek","payload":"oops"}`,
		`{"type":"seek","payload":-1}`,
		`{"type":"nope"}`,
		`not json`,
		`{"type":"seek","payload":3.5}`,
	} {
		require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(frame)))
	}

	require.Eventually(t, func() bool {
		calls, _ := rec.snapshot()
		return len(calls) > 0 && calls[len(calls)-1] == "seek"
	}, time.Second, 5*time.Millisecond)

	calls, errs := rec.snapshot()
	assert.Equal(t, []string{
		"mw:greet", "greet:bob",
		"mw:play", "play",
		"mw:seek",
		"mw:seek", "seek",
	}, calls)

	require.Len(t, errs, 4)
	assert.ErrorIs(t, errs[0], ErrMalformedMessage)
	assert.EqualError(t, errs[1], "negative")
	assert.ErrorIs(t, errs[2], ErrUnknownMessageType)
	assert.ErrorIs(t, errs[3], ErrMalformedMessage)
}

func TestServeConnReadTimeout(t *testing.T) {
	router := New()
	router.SetReadTimeout(200 * time.Millisecond)
	Handle(router, "alive", func(context.Context, *websocket.Conn, struct{}) error {
		return nil
	})

	served := make(chan error, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		served <- router.ServeConn(context.Background(), conn)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	// frames within the timeout keep the connection open
	for range 3 {
		time.Sleep(50 * time.Millisecond)
		require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"alive"}`)))
	}

	select {
	case err := <-served:
		var netErr net.Error
		require.ErrorAs(t, err, &netErr)
		assert.True(t, netErr.Timeout())
	case <-time.After(2 * time.Second):
		t.Fatal("silent connection was not dropped")
	}
}
