package registration

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// ErrDuplicateAssignment is returned by a RoleStore when the (user, role)
// pair is already recorded.
var ErrDuplicateAssignment = errors.New("role already assigned")

// RoleAssignment is one row of the user_roles table.
type RoleAssignment struct {
	UserID uint
	Role   Role
}

// RoleStore records role assignments.
type RoleStore interface {
	InsertRole(ctx context.Context, a RoleAssignment) error
}

// Registrar records the role a user picks on the role selection screen.
type Registrar struct {
	store   RoleStore
	flights FlightGuard
	log     *zap.Logger
}

func NewRegistrar(store RoleStore, flights FlightGuard, log *zap.Logger) *Registrar {
	if flights == nil {
		flights = NewMemoryFlights()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registrar{store: store, flights: flights, log: log}
}

func flightKey(userID uint) string {
	return "role-select:" + strconv.FormatUint(uint64(userID), 10)
}

// SelectRole issues one insert of (user, role). A duplicate assignment counts
// as success. While a selection for the same user is pending, further calls
// are ignored without touching the store.
func (r *Registrar) SelectRole(ctx context.Context, sess Session, role Role) Outcome {
	if !sess.Valid() {
		return Outcome{Redirect: Route(EventUnauthenticated, "")}
	}
	if !role.IsValid() {
		err := fmt.Errorf("%w: %q", ErrInvalidRole, role)
		return Outcome{Notice: errorNotice(err), Err: err}
	}

	key := flightKey(sess.UserID)
	acquired, err := r.flights.Acquire(ctx, key)
	if err != nil {
		r.log.Warn("in-flight guard unavailable", zap.Uint("user_id", sess.UserID), zap.Error(err))
		return Outcome{Notice: errorNotice(err), Err: err}
	}
	if !acquired {
		r.log.Debug("role selection already in flight", zap.Uint("user_id", sess.UserID))
		return Outcome{Ignored: true}
	}
	// Issued writes run to completion even if the client goes away.
	wctx := context.WithoutCancel(ctx)
	defer func() {
		if err := r.flights.Release(wctx, key); err != nil {
			r.log.Warn("release in-flight flag", zap.Uint("user_id", sess.UserID), zap.Error(err))
		}
	}()

	err = r.store.InsertRole(wctx, RoleAssignment{UserID: sess.UserID, Role: role})
	switch {
	case err == nil:
		r.log.Info("role assigned", zap.Uint("user_id", sess.UserID), zap.String("role", role.String()))
	case errors.Is(err, ErrDuplicateAssignment):
		r.log.Info("role already assigned", zap.Uint("user_id", sess.UserID), zap.String("role", role.String()))
	default:
		r.log.Error("assign role", zap.Uint("user_id", sess.UserID), zap.String("role", role.String()), zap.Error(err))
		return Outcome{Notice: errorNotice(err), Err: err}
	}
	return Outcome{Redirect: Route(EventRoleChosen, role)}
}
