package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/dinoventures/wallet-service/internal/config"
	"github.com/dinoventures/wallet-service/internal/logging"
	"github.com/dinoventures/wallet-service/migrations"
)

func main() {
	if err := run(); err != nil {
		slog.Error("migration run failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migration run finished")
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init("wallet-migrate", cfg.LogLevel, cfg.AppEnv)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	if err := apply(db, migrations.Base, ".", postgres.DefaultMigrationsTable); err != nil {
		return fmt.Errorf("base migrations: %w", err)
	}
	slog.Info("base migrations applied")

	if cfg.AppEnv == "development" {
		if err := apply(db, migrations.SeedDev, "seed_dev", "seed_migrations"); err != nil {
			return fmt.Errorf("dev seed migrations: %w", err)
		}
		slog.Info("dev seed migrations applied")
	}

	return nil
}

// apply runs every pending up migration from fsys/dir, tracking progress
// in the named table. The dev seed tracks in its own table so schema and
// seed version sequences stay independent.
func apply(db *sql.DB, fsys fs.FS, dir, table string) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: table})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("up: %w", err)
	}
	return nil
}
