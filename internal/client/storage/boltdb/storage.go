// Package boltdb хранит клиентскую сессию в файле BoltDB.
package boltdb

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/usersvc/internal/client/storage"
)

const (
	// файл содержит токен, доступ только владельцу
	fileMode os.FileMode = 0o600

	// openTimeout ограничивает ожидание file lock, если БД открыта другим процессом
	openTimeout = time.Second
)

var bucketSession = []byte("session")

var _ storage.SessionStorage = (*Storage)(nil)

// Storage is a storage.SessionStorage backed by a single bbolt file.
type Storage struct {
	db *bbolt.DB
}

// New opens (or creates) the session file at dbPath.
func New(_ context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, fileMode, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open session db %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close releases the file lock. Safe to call more than once.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
