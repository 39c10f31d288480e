package registration

import (
	"context"

	"go.uber.org/zap"
)

// Persister stores a validated draft for the session's user.
type Persister[D any] interface {
	Persist(ctx context.Context, sess Session, draft D) error
}

// PersistFunc adapts a function to Persister.
type PersistFunc[D any] func(ctx context.Context, sess Session, draft D) error

func (f PersistFunc[D]) Persist(ctx context.Context, sess Session, draft D) error {
	return f(ctx, sess, draft)
}

// FormController drives one profile form: validate fully, persist once,
// then navigate.
type FormController[D Draft[D]] struct {
	persister Persister[D]
	log       *zap.Logger
}

func NewFormController[D Draft[D]](p Persister[D], log *zap.Logger) *FormController[D] {
	if log == nil {
		log = zap.NewNop()
	}
	return &FormController[D]{persister: p, log: log}
}

// Empty returns the draft a freshly opened form starts from.
func (c *FormController[D]) Empty() D {
	var d D
	return d
}

// Edit applies edits to d and returns the new draft.
func (c *FormController[D]) Edit(d D, edits ...Edit) (D, error) {
	return Reduce(d, edits...)
}

// Submit validates every required field before accepting the draft. A
// rejected draft yields a single aggregated notice; a persistence failure
// yields an error notice. Only a persisted draft navigates onward.
func (c *FormController[D]) Submit(ctx context.Context, sess Session, d D) Outcome {
	role := d.Role()
	if !sess.Valid() {
		return Outcome{Redirect: Route(EventUnauthenticated, "")}
	}
	if v := d.Validate(); !v.Empty() {
		c.log.Debug("profile rejected", zap.String("role", role.String()), zap.Strings("fields", v.Fields()))
		return Outcome{Notice: missingInfoNotice(), Violations: v}
	}
	if c.persister != nil {
		if err := c.persister.Persist(context.WithoutCancel(ctx), sess, d); err != nil {
			c.log.Error("persist profile", zap.Uint("user_id", sess.UserID), zap.String("role", role.String()), zap.Error(err))
			return Outcome{Notice: errorNotice(err), Err: err}
		}
	}
	c.log.Info("profile created", zap.Uint("user_id", sess.UserID), zap.String("role", role.String()))
	return Outcome{Notice: createdNotice(role), Redirect: Route(EventProfileSubmitted, role)}
}
