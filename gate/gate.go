// Package gate answers one question: may this user do this to that
// resource? Each resource type gets a Policy; the Gate only dispatches.
// User identities are generic so the same gate works over numeric ids or
// token subjects.
package gate

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized    = errors.New("gate: access denied")
	ErrNoPolicyDefined = errors.New("gate: no policy registered for resource type")
)

// Action is the verb being checked.
type Action string

// ActionView is the only verb the screens check: opening a page.
const ActionView Action = "view"

// Policy decides for one resource type. resource may be nil.
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, resource any) bool
}

// Gate routes checks to the policy registered for the resource type. The
// zero user is always denied.
type Gate[U comparable] struct {
	byType map[string]Policy[U]
}

func NewGate[U comparable]() *Gate[U] {
	return &Gate[U]{byType: map[string]Policy[U]{}}
}

// Register installs p for resourceType, replacing any earlier policy.
// Registration happens at wiring time, before the gate serves requests.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.byType[resourceType] = p
}

func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	var anonymous U
	p, registered := g.byType[resourceType]
	switch {
	case user == anonymous:
		return ErrUnauthorized
	case !registered:
		return ErrNoPolicyDefined
	case !p.Can(ctx, user, action, resource):
		return ErrUnauthorized
	}
	return nil
}

// Can is Authorize as a boolean.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}
