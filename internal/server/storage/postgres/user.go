package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iudanet/usersvc/internal/models"
	"github.com/iudanet/usersvc/internal/server/storage"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const userColumns = `id, email, password, created_at, updated_at`

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (email, password)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET email = $1, password = $2, updated_at = now()
		 WHERE id = $3
		 RETURNING created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.ID).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns

	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Storage) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	query :=
		`INSERT INTO users (email, password) VALUES ($1, $2)
		 ON CONFLICT (email) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, user.Email, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}

	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
