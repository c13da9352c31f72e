package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/config"
)

// ErrUnreachable is returned when the store does not answer within the probe timeout.
var ErrUnreachable = errors.New("database unreachable")

// DB is a plain postgres connection used where gorm is not needed.
type DB struct {
	*sql.DB
}

// New opens a lib/pq connection. It does not ping; use HealthCheck or Probe.
func New(cfg *config.Config, logger *zap.Logger) (*DB, error) {
	logger.Info("connecting to postgres",
		zap.String("host", cfg.DBHost),
		zap.String("port", cfg.DBPort),
		zap.String("user", cfg.DBUser),
	)

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{db}, nil
}

// HealthCheck checks if the database is accessible
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Pinger is anything that can check its connection.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Probe pings p with a fixed timeout. Any failure, including the timeout,
// is reported as ErrUnreachable so callers can switch to maintenance mode.
func Probe(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return nil
}
