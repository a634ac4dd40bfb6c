package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/usersvc/internal/client/storage"
)

func setupTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "client.db")
	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return store, dbPath
}

func TestNew_Success(t *testing.T) {
	store, dbPath := setupTestStorage(t)

	// Проверяем что файл БД действительно создан
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	err = store.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketSession) == nil {
			return os.ErrNotExist
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	// Родительская директория не существует
	invalidPath := filepath.Join(t.TempDir(), "missing", "client.db")
	store, err := New(context.Background(), invalidPath)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose_Twice(t *testing.T) {
	store, _ := setupTestStorage(t)

	require.NoError(t, store.Close())
	// bbolt.Close на закрытой БД возвращает nil
	assert.NoError(t, store.Close())
}

func TestSession_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStorage(t)

	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	expiresAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	session := &storage.Session{
		Server:    "http://localhost:8080",
		Email:     "alice@example.com",
		Token:     "header.payload.signature",
		ExpiresAt: expiresAt,
	}
	require.NoError(t, store.SaveSession(ctx, session))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Email, got.Email)
	assert.Equal(t, session.Token, got.Token)
	assert.Equal(t, session.Server, got.Server)
	assert.True(t, expiresAt.Equal(got.ExpiresAt))

	// повторный вход заменяет сессию
	session.Email = "bob@example.com"
	require.NoError(t, store.SaveSession(ctx, session))
	got, err = store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", got.Email)

	require.NoError(t, store.DeleteSession(ctx))
	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	assert.ErrorIs(t, store.DeleteSession(ctx), storage.ErrSessionNotFound)
}

func TestSession_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	store, dbPath := setupTestStorage(t)

	require.NoError(t, store.SaveSession(ctx, &storage.Session{Email: "a@example.com", Token: "t"}))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Token)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()

	assert.False(t, (&storage.Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&storage.Session{ExpiresAt: now}).Expired(now))
	assert.True(t, (&storage.Session{ExpiresAt: now.Add(-time.Minute)}).Expired(now))
}
