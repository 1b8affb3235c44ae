package controller

import "context"

type contextKey int

const (
	sessionCtxKey contextKey = iota
)

// getSessionFromCtx reports ErrSessionNotBound when ctx carries no session,
// which only happens to a handler invoked outside connectRoom.
func (c controller) getSessionFromCtx(ctx context.Context) (*session, error) {
	sess, ok := ctx.Value(sessionCtxKey).(*session)
	if !ok {
		return nil, ErrSessionNotBound
	}

	return sess, nil
}

func (c controller) getBindingFromCtx(ctx context.Context) (string, string, error) {
	sess, err := c.getSessionFromCtx(ctx)
	if err != nil {
		return "", "", err
	}

	return sess.Binding()
}
