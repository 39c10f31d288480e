package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/tutorconnect/gate"
)

type fixedPolicy bool

func (p fixedPolicy) Can(context.Context, uint, gate.Action, any) bool { return bool(p) }

func TestAuthorize(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("open", fixedPolicy(true))
	g.Register("closed", fixedPolicy(false))

	tests := []struct {
		name     string
		user     uint
		resource string
		want     error
	}{
		{"anonymous user", 0, "open", gate.ErrUnauthorized},
		{"unregistered type", 1, "unknown", gate.ErrNoPolicyDefined},
		{"policy denies", 1, "closed", gate.ErrUnauthorized},
		{"policy allows", 1, "open", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Authorize(context.Background(), tt.user, gate.ActionView, tt.resource, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Authorize() = %v, want %v", err, tt.want)
			}
			if got := g.Can(context.Background(), tt.user, gate.ActionView, tt.resource, nil); got != (tt.want == nil) {
				t.Errorf("Can() = %v", got)
			}
		})
	}
}

type role string

func (r role) String() string { return string(r) }

func TestGrantPolicy(t *testing.T) {
	grants := newStaticGrants()
	grants.set(1, "student")
	g := gate.NewGate[uint]()
	g.Register("profile", gate.GrantPolicy[uint]{Resolver: grants})

	tests := []struct {
		name     string
		user     uint
		resource any
		want     bool
	}{
		{"held grant", 1, "student", true},
		{"stringer resource", 1, role("student"), true},
		{"missing grant", 1, "tutor", false},
		{"unknown user", 2, "student", false},
		{"non-string resource", 1, 42, false},
		{"nil resource", 1, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Can(context.Background(), tt.user, gate.ActionView, "profile", tt.resource)
			if got != tt.want {
				t.Errorf("Can() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrantPolicyDeniesOnLookupError(t *testing.T) {
	failing := gate.ResolverFunc[uint](func(context.Context, uint) (gate.Grants, error) {
		return gate.NewGrants("student"), errors.New("db down")
	})
	p := gate.GrantPolicy[uint]{Resolver: failing}
	if p.Can(context.Background(), 1, gate.ActionView, "student") {
		t.Error("expected denial when the lookup fails")
	}
}
