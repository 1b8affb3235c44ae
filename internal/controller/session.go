package controller

import "sync"

type sessionState int

const (
	sessionUnbound sessionState = iota
	sessionBound
)

// session is the per-connection state machine. It starts unbound and is
// bound to a room and client by the first init message.
type session struct {
	id string

	mu       sync.Mutex
	state    sessionState
	roomId   string
	clientId string
}

func newSession(id string) *session {
	return &session{id: id}
}

func (s *session) Bind(roomId, clientId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == sessionBound {
		return ErrSessionAlreadyBound
	}

	s.state = sessionBound
	s.roomId = roomId
	s.clientId = clientId

	return nil
}

// Binding returns the room and client of a bound session.
func (s *session) Binding() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != sessionBound {
		return "", "", ErrSessionNotBound
	}

	return s.roomId, s.clientId, nil
}
