package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/linemk/impnet/internal/config"
	"github.com/linemk/impnet/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	s, err := storage.NewFileStorage(path)
	require.NoError(t, err)

	_, err = s.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound, "empty storage has no token")

	assert.NoError(t, s.Set(ctx, storage.KeyToken, "abc"))
	assert.NoError(t, s.Set(ctx, storage.KeyTheme, "light"))

	// новое хранилище на том же файле видит сохранённые значения
	reopened, err := storage.NewFileStorage(path)
	require.NoError(t, err)
	token, err := reopened.Get(ctx, storage.KeyToken)
	assert.NoError(t, err)
	assert.Equal(t, "abc", token)

	assert.NoError(t, reopened.Delete(ctx, storage.KeyToken))
	assert.NoError(t, reopened.Delete(ctx, storage.KeyToken), "deleting a missing key is not an error")

	_, err = s.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	theme, err := s.Get(ctx, storage.KeyTheme)
	assert.NoError(t, err)
	assert.Equal(t, "light", theme)
}

func TestSQLStorage_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := storage.NewSQLStorage(db, "kiosk-1")

	rows := sqlmock.NewRows([]string{"value"}).AddRow("token-value")
	mock.ExpectQuery("SELECT value FROM client_state WHERE profile = \\$1 AND key = \\$2").
		WithArgs("kiosk-1", storage.KeyToken).WillReturnRows(rows)

	value, err := s.Get(context.Background(), storage.KeyToken)
	assert.NoError(t, err)
	assert.Equal(t, "token-value", value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := storage.NewSQLStorage(db, "default")

	mock.ExpectQuery("SELECT value FROM client_state").
		WithArgs("default", storage.KeyTheme).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err = s.Get(context.Background(), storage.KeyTheme)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_GetQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := storage.NewSQLStorage(db, "default")
	mock.ExpectQuery("SELECT value FROM client_state").
		WithArgs("default", storage.KeyToken).
		WillReturnError(errors.New("db error"))

	_, err = s.Get(context.Background(), storage.KeyToken)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_SetAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := storage.NewSQLStorage(db, "default")
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO client_state").
		WithArgs("default", storage.KeyToken, "abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM client_state WHERE profile = \\$1 AND key = \\$2").
		WithArgs("default", storage.KeyToken).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Set(ctx, storage.KeyToken, "abc"))
	assert.NoError(t, s.Delete(ctx, storage.KeyToken))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildDSN(t *testing.T) {
	dsn := storage.BuildDSN(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "impnet", Password: "secret", Name: "state",
	})
	assert.Equal(t, "postgres://impnet:secret@db:5432/state?sslmode=disable", dsn)
}

// fakeRedis - фиктивная реализация команд redis поверх map
type fakeRedis struct {
	values map[string]string
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{values: map[string]string{}}
	s := storage.NewRedisStorage(fake, "kiosk-2")

	_, err := s.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.NoError(t, s.Set(ctx, storage.KeyToken, "abc"))
	assert.Equal(t, "abc", fake.values["impnet:kiosk-2:token"])

	value, err := s.Get(ctx, storage.KeyToken)
	assert.NoError(t, err)
	assert.Equal(t, "abc", value)

	assert.NoError(t, s.Delete(ctx, storage.KeyToken))
	assert.NoError(t, s.Delete(ctx, storage.KeyToken))
	assert.Empty(t, fake.values)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := storage.Open(context.Background(), config.StorageConfig{Driver: "etcd"})
	assert.Error(t, err)
}

func TestOpen_PostgresWithoutPassword(t *testing.T) {
	_, _, err := storage.Open(context.Background(), config.StorageConfig{Driver: storage.DriverPostgres})
	assert.Error(t, err)
}
