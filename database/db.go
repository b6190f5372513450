package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned (wrapped) when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// errNoRowsAffected rolls back a transaction whose final statement matched nothing.
var errNoRowsAffected = errors.New("no rows affected")

type DB struct {
	Pool *pgxpool.Pool
	log  logrus.FieldLogger
}

func Connect(ctx context.Context, databaseURL string, log logrus.FieldLogger) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established")
	return &DB{Pool: pool, log: log}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
	db.log.Info("Database connection closed")
}

// withTx runs fn in a transaction. It commits when fn returns nil and
// rolls back otherwise.
func (db *DB) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, db.Pool, fn)
}

// timed logs the duration of op at debug level when the returned func runs.
func (db *DB) timed(op string, fields logrus.Fields) func() {
	start := time.Now()
	return func() {
		db.log.WithFields(fields).WithField("duration", time.Since(start)).Debug(op)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}
