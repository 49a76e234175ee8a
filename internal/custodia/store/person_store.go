package store

import (
	"context"
	"time"

	"custodia/internal/custodia/types"
)

// PersonStore holds the personnel directory. People are never deleted:
// SetActive flips lifecycle status so historical transactions keep valid
// references.
type PersonStore interface {
	// GetByToken returns the person whose canonical badge token matches,
	// active or not. ErrNotFound if no such person.
	GetByToken(ctx context.Context, token string) (types.Person, error)

	GetByID(ctx context.Context, id string) (types.Person, error)

	// Create fails with ErrDuplicateToken when the badge token is taken.
	Create(ctx context.Context, p types.Person) error

	// Update rewrites mutable fields (name, role, department, PIN, token).
	Update(ctx context.Context, p types.Person) error

	SetActive(ctx context.Context, id string, active bool, at time.Time) error

	// List returns all people ordered by display name.
	List(ctx context.Context) ([]types.Person, error)
}
