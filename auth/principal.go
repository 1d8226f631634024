package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrPrincipalNotFound is returned by a PrincipalLoader when the token subject
// no longer maps to an account.
var ErrPrincipalNotFound = errors.New("principal not found")

// Principal is the authenticated identity attached to a single request
type Principal struct {
	Identifier string
	UserID     uuid.UUID
	Roles      []string
}

// HasRole reports whether the principal holds any of the given roles
func (p *Principal) HasRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// PrincipalLoader resolves a verified token subject to a Principal
type PrincipalLoader interface {
	LoadByIdentifier(ctx context.Context, identifier string) (*Principal, error)
}

// PrincipalLoaderFunc adapts a function to PrincipalLoader
type PrincipalLoaderFunc func(ctx context.Context, identifier string) (*Principal, error)

// LoadByIdentifier calls f(ctx, identifier)
func (f PrincipalLoaderFunc) LoadByIdentifier(ctx context.Context, identifier string) (*Principal, error) {
	return f(ctx, identifier)
}
