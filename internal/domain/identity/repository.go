package identity

import (
	"context"

	"github.com/google/uuid"
)

// StoreRepository defines persistence for stores
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByName(ctx context.Context, name string) (*Store, error)
	// FindAllActive lists the active, non-deleted stores by name
	FindAllActive(ctx context.Context) ([]Store, error)
	Save(ctx context.Context, store *Store) error
}

// UserRepository defines persistence for users
type UserRepository interface {
	// FindByIDForStore returns a user of the store, including deleted ones
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindAllForStore lists non-deleted users, optionally filtered by name or email
	FindAllForStore(ctx context.Context, storeID uuid.UUID, search string) ([]User, error)
	ExistsAdmin(ctx context.Context, storeID uuid.UUID) (bool, error)
	Save(ctx context.Context, user *User) error
}
