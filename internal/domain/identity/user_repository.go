package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicconnect/backend/internal/domain/shared"
)

// UserRepository defines the user data access interface
type UserRepository interface {
	// Save persists a user (create or update)
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByPhoneNumber retrieves a user by phone number
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*User, error)

	// ExistsByPhoneNumber checks whether an account with the phone number exists
	ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error)

	// FindAll retrieves users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*User], error)

	// Delete removes a user by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
