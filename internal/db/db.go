// Package db wraps the Postgres connection and embedded-migration lifecycle
// shared by the optional review-history backend.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sqlx connection pool.
type DB struct {
	*sqlx.DB
}

// Open connects to dsn, applies pool limits, pings, and runs pending
// migrations before returning. The returned func closes the pool.
func Open(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration, logger *slog.Logger) (*DB, func(), error) {
	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect to database: %w", err)
	}
	if maxOpenConns > 0 {
		conn.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		conn.SetMaxIdleConns(maxIdleConns)
	}
	if connMaxLifetime > 0 {
		conn.SetConnMaxLifetime(connMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, func() {}, fmt.Errorf("ping database: %w", err)
	}

	wrapped := &DB{DB: conn}
	logger.Info("running review-history database migrations")
	if err := wrapped.runMigrations(); err != nil {
		_ = conn.Close()
		return nil, func() {}, fmt.Errorf("run migrations: %w", err)
	}

	return wrapped, func() {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close database connection", "error", err)
		}
	}, nil
}

func (db *DB) runMigrations() error {
	migrator, err := db.newMigrator()
	if err != nil {
		return err
	}

	_, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("get migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty migration state; force the known-good version before retrying")
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (db *DB) newMigrator() (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	dbDriver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create database driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
}
