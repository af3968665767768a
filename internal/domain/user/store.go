package user

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, cached) to be used interchangeably.
type Store interface {
	// FindByID retrieves a user by ID. It returns (nil, nil) when no
	// user with the given ID exists.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Insert stores a new user. The store assigns the ID and returns
	// the persisted entity.
	Insert(ctx context.Context, u *User) (*User, error)

	// UpdateOrInsert overwrites the user with the given ID, inserting
	// it when absent. It reports whether a new record was inserted.
	UpdateOrInsert(ctx context.Context, u *User) (inserted bool, err error)

	// Delete removes a user by ID. It returns a not-found error when
	// no user with the given ID exists.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetPage returns the requested slice of the collection in stable
	// creation order, together with the total count.
	GetPage(ctx context.Context, pageNumber, pageSize int) (*Page, error)
}
