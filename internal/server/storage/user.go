package storage

import (
	"context"

	"github.com/iudanet/usersvc/internal/models"
)

// UserStorage defines interface for user data persistence.
// PasswordHash is stored and returned byte-for-byte.
type UserStorage interface {
	// CreateUser inserts a new user and sets user.ID, CreatedAt and UpdatedAt
	// Returns ErrUserAlreadyExists if email is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers returns all users ordered by ID
	// Returns empty slice if there are no users
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateUser updates email and password hash
	// Returns ErrUserNotFound if user doesn't exist, ErrUserAlreadyExists if email is taken
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes user by ID and returns the deleted row
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, id int64) (*models.User, error)

	// EnsureUser inserts user unless the email already exists.
	// Returns true if a row was inserted
	EnsureUser(ctx context.Context, user *models.User) (bool, error)

	// Ping checks the connection
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool
	Close() error
}
