package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/linemk/impnet/internal/config"
)

// SQLStorage хранит состояние клиента в таблице client_state (см. migrations/).
// Profile разделяет несколько клиентов в одной базе, например терминалы-киоски.
type SQLStorage struct {
	db      *sql.DB
	profile string
}

func NewSQLStorage(db *sql.DB, profile string) *SQLStorage {
	return &SQLStorage{db: db, profile: profile}
}

// OpenPostgres реализует подключение к БД через DSN
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.Password == "" {
		return nil, errors.New("DB_PASSWORD environment variable is not set")
	}
	db, err := sql.Open("postgres", BuildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// BuildDSN собирает строку подключения из отдельных параметров
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)
}

func (s *SQLStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	row := s.db.QueryRowContext(ctx, "SELECT value FROM client_state WHERE profile = $1 AND key = $2", s.profile, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to query client state: %w", err)
	}
	return value, nil
}

func (s *SQLStorage) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO client_state (profile, key, value, updated_at)
	          VALUES ($1, $2, $3, NOW())
	          ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, s.profile, key, value); err != nil {
		return fmt.Errorf("failed to save client state: %w", err)
	}
	return nil
}

func (s *SQLStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM client_state WHERE profile = $1 AND key = $2", s.profile, key); err != nil {
		return fmt.Errorf("failed to delete client state: %w", err)
	}
	return nil
}
