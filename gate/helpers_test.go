package gate_test

import (
	"context"
	"sync"

	"github.com/diewo77/tutorconnect/gate"
)

// staticGrants is an in-memory GrantResolver that counts lookups.
type staticGrants struct {
	mu      sync.Mutex
	grants  map[uint]gate.Grants
	lookups int
}

func newStaticGrants() *staticGrants {
	return &staticGrants{grants: map[uint]gate.Grants{}}
}

func (s *staticGrants) set(user uint, names ...string) {
	s.mu.Lock()
	s.grants[user] = gate.NewGrants(names...)
	s.mu.Unlock()
}

func (s *staticGrants) Resolve(_ context.Context, user uint) (gate.Grants, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if g, ok := s.grants[user]; ok {
		return g, nil
	}
	return gate.Grants{}, nil
}
