package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/linemk/impnet/internal/config"
)

var ErrNotFound = errors.New("key not found")

// Ключи долговременного хранилища клиента
const (
	KeyToken = "token"
	KeyTheme = "theme"
)

// Storage - долговременное хранилище клиента (аналог localStorage браузера).
// Delete отсутствующего ключа ошибкой не считается.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Open создаёт хранилище по настройкам. Возвращаемую функцию нужно вызвать при завершении.
func Open(ctx context.Context, cfg config.StorageConfig) (Storage, func() error, error) {
	const op = "storage.Open"

	switch cfg.Driver {
	case DriverFile, "":
		s, err := NewFileStorage(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, func() error { return nil }, nil
	case DriverPostgres:
		db, err := OpenPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return NewSQLStorage(db, cfg.Profile), db.Close, nil
	case DriverRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return NewRedisStorage(client, cfg.Profile), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}
}
