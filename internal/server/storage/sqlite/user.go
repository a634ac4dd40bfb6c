package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/iudanet/usersvc/internal/models"
	"github.com/iudanet/usersvc/internal/server/storage"
)

const userColumns = `id, email, password, created_at, updated_at`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`

	now := time.Now().UTC()

	err := s.db.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		now,
		now,
	).Scan(&user.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	return nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// ListUsers returns all users ordered by ID
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// UpdateUser updates user information
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = ?, password = ?, updated_at = ?
		WHERE id = ?
		RETURNING created_at
	`

	now := time.Now().UTC()

	err := s.db.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		now,
		user.ID,
	).Scan(&user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	user.UpdatedAt = now

	return nil
}

// DeleteUser deletes user by ID
func (s *Storage) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	query := `DELETE FROM users WHERE id = ? RETURNING ` + userColumns

	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// EnsureUser inserts user unless the email is already taken
func (s *Storage) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	query := `
		INSERT INTO users (email, password, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (email) DO NOTHING
	`

	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, query, user.Email, user.PasswordHash, now, now)
	if err != nil {
		return false, fmt.Errorf("failed to ensure user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
