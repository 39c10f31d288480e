package registration

import "context"

// Session is the authenticated identity for one request. It is handed to the
// registrar and controllers explicitly and never stored beyond the request.
type Session struct {
	UserID uint
	Token  string
}

func (s Session) Valid() bool { return s.UserID != 0 }

// SessionSource looks up the current session. A nil session with a nil error
// means nobody is signed in.
type SessionSource interface {
	CurrentSession(ctx context.Context) (*Session, error)
}

// SessionFunc adapts a function to SessionSource.
type SessionFunc func(ctx context.Context) (*Session, error)

func (f SessionFunc) CurrentSession(ctx context.Context) (*Session, error) { return f(ctx) }
