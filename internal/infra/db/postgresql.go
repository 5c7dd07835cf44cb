// Package db provides database connection and management functionality.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mycfo/backend/config"
)

const pingTimeout = 5 * time.Second

// Database wraps the GORM connection to the reconciliation store.
type Database struct {
	db  *gorm.DB
	cfg *config.DatabaseConfig
}

// NewPostgresConnection opens the PostgreSQL store, retrying with a doubling backoff
// while the server is not accepting connections yet. ctx bounds the whole attempt loop.
func NewPostgresConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Database, error) {
	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := cfg.ConnectBackoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		database, err := open(ctx, cfg)
		if err == nil {
			slog.Info("Database connection established",
				"attempt", attempt,
				"max_open_conns", cfg.MaxOpenConns,
				"max_idle_conns", cfg.MaxIdleConns,
			)
			return database, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		slog.Warn("Database not ready, retrying",
			"attempt", attempt,
			"wait", backoff,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to database: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, lastErr)
}

func open(ctx context.Context, cfg *config.DatabaseConfig) (*Database, error) {
	level := logger.Silent
	if cfg.LogSQL {
		level = logger.Info
	}

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey for link conflicts.
	gormDB, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	database := &Database{db: gormDB, cfg: cfg}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := database.HealthCheck(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return database, nil
}

// DB returns the underlying GORM database instance.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// HealthCheck pings the database within the caller's deadline.
func (d *Database) HealthCheck(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for health check: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Migrate creates or updates the tables of the given models.
func (d *Database) Migrate(ctx context.Context, models ...any) error {
	if err := d.db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	slog.Info("Database connection closed")
	return nil
}
