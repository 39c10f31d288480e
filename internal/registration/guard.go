package registration

import (
	"context"

	"go.uber.org/zap"
)

// Guard gates screens that need an authenticated user.
type Guard struct {
	sessions SessionSource
	log      *zap.Logger
}

func NewGuard(sessions SessionSource, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{sessions: sessions, log: log}
}

// Enter looks up the current session. When there is none, or the lookup
// fails, the returned outcome redirects to the auth screen and ok is false.
func (g *Guard) Enter(ctx context.Context) (Session, Outcome, bool) {
	sess, err := g.sessions.CurrentSession(ctx)
	if err != nil {
		g.log.Debug("session lookup failed", zap.Error(err))
		sess = nil
	}
	if sess == nil || !sess.Valid() {
		return Session{}, Outcome{Redirect: Route(EventUnauthenticated, "")}, false
	}
	return *sess, Outcome{}, true
}
