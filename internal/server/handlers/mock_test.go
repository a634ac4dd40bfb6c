package handlers

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/iudanet/usersvc/internal/crypto"
	"github.com/iudanet/usersvc/internal/models"
	"github.com/iudanet/usersvc/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// testHasher использует минимальные параметры, чтобы тесты были быстрыми
func testHasher() *crypto.Hasher {
	return crypto.NewHasher(crypto.Params{Memory: 1024, Time: 1, Threads: 1})
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users     map[int64]*models.User // id -> User
	err       error                  // returned by every call when set
	updated   []*models.User         // Track all updates
	nextID    int64
	updateErr error
}

func newMockUserStorage(users ...*models.User) *mockUserStorage {
	m := &mockUserStorage{users: make(map[int64]*models.User)}
	for _, u := range users {
		m.nextID++
		u.ID = m.nextID
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStorage) byEmail(email string) *models.User {
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (m *mockUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	if m.byEmail(user.Email) != nil {
		return storage.ErrUserAlreadyExists
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserStorage) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u := m.byEmail(email)
	if u == nil {
		return nil, storage.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserStorage) ListUsers(_ context.Context) ([]*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *mockUserStorage) UpdateUser(_ context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.users[user.ID]
	if !ok {
		return storage.ErrUserNotFound
	}
	if other := m.byEmail(user.Email); other != nil && other.ID != user.ID {
		return storage.ErrUserAlreadyExists
	}
	existing.Email = user.Email
	existing.PasswordHash = user.PasswordHash
	existing.UpdatedAt = time.Now()
	m.updated = append(m.updated, user)
	return nil
}

func (m *mockUserStorage) DeleteUser(_ context.Context, id int64) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	delete(m.users, id)
	return u, nil
}

func (m *mockUserStorage) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	if m.byEmail(user.Email) != nil {
		return false, nil
	}
	return true, m.CreateUser(ctx, user)
}

func (m *mockUserStorage) Ping(_ context.Context) error {
	return m.err
}

func (m *mockUserStorage) Close() error {
	return nil
}
