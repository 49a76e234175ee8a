package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"custodia/internal/custodia/scan"
	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

// IdentityResolver maps canonical tokens to people. Read-only; it never
// mutates the directory.
type IdentityResolver struct {
	people store.PersonStore
}

func NewIdentityResolver(people store.PersonStore) *IdentityResolver {
	return &IdentityResolver{people: people}
}

// Resolve returns the unique active person whose badge token matches.
// The token is normalized first so callers may pass raw scan strings.
// Inactive or unknown tokens are both ErrNotFound; if a role set is given
// the person must hold one of those roles (ErrForbidden otherwise).
func (r *IdentityResolver) Resolve(ctx context.Context, token string, roles ...types.Role) (types.Person, error) {
	token = scan.Normalize(token)
	if token == "" {
		return types.Person{}, store.ErrNotFound
	}

	p, err := r.people.GetByToken(ctx, token)
	if err != nil {
		return types.Person{}, err
	}
	if !p.Active {
		return types.Person{}, store.ErrNotFound
	}
	if !p.Role.In(roles) {
		return types.Person{}, ErrForbidden
	}
	return p, nil
}

// Login authenticates an officer at a guard terminal: badge plus 4-digit
// PIN, restricted to officer roles. A wrong PIN reports ErrNotFound, the
// same as an unknown badge, so the response does not reveal which part
// failed.
func (r *IdentityResolver) Login(ctx context.Context, token, pin string) (types.Person, error) {
	if !validPIN(pin) {
		return types.Person{}, fmt.Errorf("login: %w", ErrInvalidPIN)
	}

	p, err := r.Resolve(ctx, token, types.OfficerRoles...)
	if err != nil {
		return types.Person{}, err
	}
	if subtle.ConstantTimeCompare([]byte(p.PIN), []byte(pin)) != 1 {
		return types.Person{}, store.ErrNotFound
	}
	return p, nil
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
