package wsutils

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ThreadSafeWriter serializes writes to a websocket connection. Reads are not
// guarded; a connection must have a single reader.
type ThreadSafeWriter struct {
	*websocket.Conn
	sync.Mutex
	writeTimeout time.Duration
}

func (t *ThreadSafeWriter) WriteJSON(val any) error {
	t.Lock()
	defer t.Unlock()

	if t.writeTimeout > 0 {
		if err := t.Conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
			return err
		}
	}

	return t.Conn.WriteJSON(val)
}

func NewThreadSafeWriter(conn *websocket.Conn, writeTimeout time.Duration) *ThreadSafeWriter {
	return &ThreadSafeWriter{
		Conn:         conn,
		writeTimeout: writeTimeout,
	}
}
