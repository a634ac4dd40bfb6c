package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/usersvc/internal/models"
	"github.com/iudanet/usersvc/internal/server/storage"
)

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewWithDB(db), mock
}

var (
	columns = []string{"id", "email", "password", "created_at", "updated_at"}
	created = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
)

func TestCreateUser(t *testing.T) {
	tests := []struct {
		queryErr  error
		wantError error
		name      string
		wantID    int64
	}{
		{
			name:   "success",
			wantID: 42,
		},
		{
			name:      "duplicate email",
			queryErr:  &pgconn.PgError{Code: "23505", Message: "duplicate key value"},
			wantError: storage.ErrUserAlreadyExists,
		},
		{
			name:     "db error",
			queryErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)

			expect := mock.ExpectQuery(`INSERT INTO users \(email, password\)`).
				WithArgs("alice@example.com", "hash")
			if tt.queryErr != nil {
				expect.WillReturnError(tt.queryErr)
			} else {
				expect.WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
					AddRow(tt.wantID, created, created))
			}

			user := &models.User{Email: "alice@example.com", PasswordHash: "hash"}
			err := s.CreateUser(context.Background(), user)

			switch {
			case tt.wantError != nil:
				assert.ErrorIs(t, err, tt.wantError)
			case tt.queryErr != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "db down")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, user.ID)
				assert.Equal(t, created, user.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("bob@example.com").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), "bob@example.com", "hash", created, created))

		user, err := s.GetUserByEmail(context.Background(), "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := s.GetUserByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
		assert.Nil(t, user)
	})
}

func TestGetUserByID_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(columns))

	user, err := s.GetUserByID(context.Background(), 99)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM users ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "a@example.com", "h1", created, created).
			AddRow(int64(2), "b@example.com", "h2", created, created))

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.Equal(t, int64(2), users[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers_Empty(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM users ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(columns))

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUpdateUser(t *testing.T) {
	tests := []struct {
		queryErr  error
		wantError error
		name      string
	}{
		{name: "success"},
		{name: "not found", queryErr: sql.ErrNoRows, wantError: storage.ErrUserNotFound},
		{
			name:      "email taken",
			queryErr:  &pgconn.PgError{Code: "23505"},
			wantError: storage.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)

			expect := mock.ExpectQuery(`UPDATE users SET email = \$1, password = \$2`).
				WithArgs("new@example.com", "new-hash", int64(3))
			if tt.queryErr != nil {
				expect.WillReturnError(tt.queryErr)
			} else {
				expect.WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))
			}

			err := s.UpdateUser(context.Background(), &models.User{
				ID:           3,
				Email:        "new@example.com",
				PasswordHash: "new-hash",
			})
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteUser(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`DELETE FROM users WHERE id = \$1 RETURNING`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(5), "gone@example.com", "hash", created, created))

	user, err := s.DeleteUser(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "gone@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUser(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "inserted", affected: 1, want: true},
		{name: "already present", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)

			mock.ExpectExec(`(?s)INSERT INTO users .+ON CONFLICT \(email\) DO NOTHING`).
				WithArgs("admin@example.com", "hash").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			inserted, err := s.EnsureUser(context.Background(), &models.User{
				Email:        "admin@example.com",
				PasswordHash: "hash",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, inserted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	assert.NoError(t, NewWithDB(db).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// id в БД должен вмещать любой int64, который принимает API
func TestMigrations_UserIDIsBigint(t *testing.T) {
	data, err := embedMigrations.ReadFile("migrations/00001_create_users.sql")
	require.NoError(t, err)

	assert.Regexp(t, `(?m)^\s*id\s+BIGSERIAL\s+PRIMARY KEY`, string(data))
}

func TestDeleteUser_IDAboveInt32(t *testing.T) {
	s, mock := newStorageWithMock(t)

	const id = int64(3_000_000_000)
	mock.ExpectQuery(`DELETE FROM users WHERE id = \$1 RETURNING`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	user, err := s.DeleteUser(context.Background(), id)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}
