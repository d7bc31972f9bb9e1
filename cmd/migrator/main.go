package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/linemk/impnet/internal/config"
	"github.com/linemk/impnet/internal/storage"
	"github.com/spf13/pflag"
)

const migrationTable = "migrations"

// buildMigrateDSN добавляет к DSN таблицу версий мигратора
func buildMigrateDSN(dbCfg config.DatabaseConfig, table string) string {
	return storage.BuildDSN(dbCfg) + "&x-migrations-table=" + table
}

func main() {
	var (
		migrationsPathFlag string
		down               bool
	)
	pflag.String("config", "", "path to config file")
	pflag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files")
	pflag.BoolVar(&down, "down", false, "roll back all migrations")
	pflag.Parse()

	cfg := config.MustLoad()

	migrationsPath := cfg.Migrations.Path
	if migrationsPathFlag != "" {
		migrationsPath = migrationsPathFlag
	}

	dbCfg := cfg.Storage.Database
	if dbCfg.Password == "" {
		log.Fatal("DB_PASSWORD environment variable is required")
	}

	// Создаем объект мигратора
	m, err := migrate.New("file://"+migrationsPath, buildMigrateDSN(dbCfg, migrationTable))
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	apply := m.Up
	if down {
		apply = m.Down
	}
	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to apply")
		} else {
			log.Fatalf("migration failed: %v", err)
		}
	} else {
		log.Println("Migrations applied successfully")
	}

	if down {
		return
	}

	db, err := storage.OpenPostgres(context.Background(), dbCfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
	if err != nil {
		log.Fatalf("failed to query tables: %v", err)
	}
	defer rows.Close()

	fmt.Println("Current tables in the database:")
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			log.Fatalf("failed to scan row: %v", err)
		}
		fmt.Println(" -", tableName)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("error reading rows: %v", err)
	}
}
