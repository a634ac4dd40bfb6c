package server

import (
	"context"
	"fmt"

	"github.com/iudanet/usersvc/internal/server/config"
	"github.com/iudanet/usersvc/internal/server/storage"
	"github.com/iudanet/usersvc/internal/server/storage/postgres"
	"github.com/iudanet/usersvc/internal/server/storage/sqlite"
)

// OpenStorage открывает хранилище выбранного драйвера и применяет миграции.
func OpenStorage(ctx context.Context, driver, dsn string) (storage.UserStorage, error) {
	var (
		store storage.UserStorage
		err   error
	)

	// Присваиваем через явную проверку ошибки, чтобы не вернуть typed nil
	switch driver {
	case config.DriverSQLite:
		var s *sqlite.Storage
		if s, err = sqlite.New(ctx, dsn); err == nil {
			store = s
		}
	case config.DriverPostgres:
		var s *postgres.Storage
		if s, err = postgres.New(ctx, dsn); err == nil {
			store = s
		}
	default:
		err = fmt.Errorf("%w: %q", storage.ErrUnknownDriver, driver)
	}

	if err != nil {
		return nil, err
	}
	return store, nil
}
