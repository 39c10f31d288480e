package gate

import "context"

// Grants is the set of names (roles) a user holds.
type Grants map[string]bool

func NewGrants(names ...string) Grants {
	g := make(Grants, len(names))
	for _, n := range names {
		g[n] = true
	}
	return g
}

func (g Grants) Has(name string) bool { return g[name] }

// GrantResolver looks up what a user holds.
type GrantResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Grants, error)
}

type ResolverFunc[U any] func(ctx context.Context, user U) (Grants, error)

func (f ResolverFunc[U]) Resolve(ctx context.Context, user U) (Grants, error) { return f(ctx, user) }

// GrantPolicy allows any action on a resource naming a grant the user holds.
// The resource is a string or a fmt.Stringer; anything else is denied, and
// so is a failed lookup.
type GrantPolicy[U any] struct {
	Resolver GrantResolver[U]
}

func (p GrantPolicy[U]) Can(ctx context.Context, user U, _ Action, resource any) bool {
	var name string
	switch r := resource.(type) {
	case string:
		name = r
	case interface{ String() string }:
		name = r.String()
	}
	if name == "" {
		return false
	}
	g, err := p.Resolver.Resolve(ctx, user)
	return err == nil && g.Has(name)
}
