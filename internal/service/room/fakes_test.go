package room

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchroom/internal/repository/connection"
)

type fakeMember struct {
	roomId   string
	clientId string
}

// fakeConnRepo delivers messages into per-connection inboxes.
type fakeConnRepo struct {
	mu      sync.Mutex
	members map[*websocket.Conn]*fakeMember
	inbox   map[*websocket.Conn][]connection.Message
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{
		members: make(map[*websocket.Conn]*fakeMember),
		inbox:   make(map[*websocket.Conn][]connection.Message),
	}
}

func (f *fakeConnRepo) Add(conn *websocket.Conn) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.members[conn]; ok {
		return connection.ErrAlreadyExists
	}
	f.members[conn] = &fakeMember{}
	return nil
}

func (f *fakeConnRepo) Subscribe(conn *websocket.Conn, roomId, clientId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.members[conn]
	if !ok {
		return connection.ErrNotFound
	}
	m.roomId = roomId
	m.clientId = clientId
	return nil
}

func (f *fakeConnRepo) Remove(conn *websocket.Conn) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.members[conn]; !ok {
		return connection.ErrNotFound
	}
	delete(f.members, conn)
	return nil
}

func (f *fakeConnRepo) HasOtherConn(roomId, clientId string, except *websocket.Conn) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for conn, m := range f.members {
		if conn != except && m.roomId == roomId && m.clientId == clientId {
			return true
		}
	}
	return false
}

func (f *fakeConnRepo) Send(_ context.Context, conn *websocket.Conn, msg *connection.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.members[conn]; !ok {
		return connection.ErrNotFound
	}
	f.inbox[conn] = append(f.inbox[conn], *msg)
	return nil
}

func (f *fakeConnRepo) Broadcast(_ context.Context, roomId string, except *websocket.Conn, msg *connection.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for conn, m := range f.members {
		if conn != except && m.roomId == roomId {
			f.inbox[conn] = append(f.inbox[conn], *msg)
		}
	}
	return nil
}

func (f *fakeConnRepo) messages(conn *websocket.Conn) []connection.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]connection.Message(nil), f.inbox[conn]...)
}

func (f *fakeConnRepo) messagesOfType(conn *websocket.Conn, msgType string) []connection.Message {
	var filtered []connection.Message
	for _, msg := range f.messages(conn) {
		if msg.Type == msgType {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

func (f *fakeConnRepo) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inbox = make(map[*websocket.Conn][]connection.Message)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type scheduledTask struct {
	delay time.Duration
	fn    func()
}

// fakeScheduler collects deferred tasks until the test fires them.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []scheduledTask
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, scheduledTask{delay: d, fn: fn})
}

// fire runs and drops every pending task with the given delay, in
// scheduling order.
func (s *fakeScheduler) fire(d time.Duration) int {
	s.mu.Lock()
	var due, rest []scheduledTask
	for _, task := range s.tasks {
		if task.delay == d {
			due = append(due, task)
		} else {
			rest = append(rest, task)
		}
	}
	s.tasks = rest
	s.mu.Unlock()

	for _, task := range due {
		task.fn()
	}
	return len(due)
}

func (s *fakeScheduler) pending() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	delays := make([]time.Duration, 0, len(s.tasks))
	for _, task := range s.tasks {
		delays = append(delays, task.delay)
	}
	sort.Slice(delays, func(i, j int) bool { return delays[i] < delays[j] })
	return delays
}
