package controller

import "errors"

var (
	ErrSessionNotBound     = errors.New("session is not bound to a room")
	ErrSessionAlreadyBound = errors.New("session is already bound to a room")
	ErrValidation          = errors.New("validation failed")
)
