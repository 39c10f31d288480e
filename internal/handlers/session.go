package handlers

import (
	"context"

	"github.com/diewo77/tutorconnect/auth"
	"github.com/diewo77/tutorconnect/internal/registration"
)

// RequestSessions reads the session auth.Middleware put in the request
// context and checks that its user still exists.
var RequestSessions = registration.SessionFunc(func(ctx context.Context) (*registration.Session, error) {
	sess, ok := auth.SessionFromContext(ctx)
	if !ok || !auth.Verify(ctx, sess.UserID) {
		return nil, nil
	}
	return &registration.Session{UserID: sess.UserID, Token: sess.TokenID}, nil
})
