// Package database owns the PostgreSQL connection pool. It is opened once at
// process start; callers borrow a connection or a transaction per operation
// and the helpers guarantee it is returned to the pool on every exit path.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/ghuser/itemstore/pkg/logger"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

// PoolOptions tunes the database/sql pool. Zero values keep database/sql defaults.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Database wraps *sql.DB with scoped connection and transaction helpers.
type Database struct {
	db  *sql.DB
	log logger.Logger
}

// NewPool opens a pool against url and verifies connectivity.
func NewPool(ctx context.Context, url string, log logger.Logger, opts ...PoolOptions) (*Database, error) {
	db, err := sql.Open(DriverName, url)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	o := PoolOptions{ConnMaxLifetime: 30 * time.Minute}
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxOpenConns > 0 {
		db.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		db.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(o.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return New(db, log), nil
}

// New wraps an already opened *sql.DB.
func New(db *sql.DB, log logger.Logger) *Database {
	return &Database{db: db, log: log}
}

// DB returns the underlying pool for migrations and event bus wiring.
func (d *Database) DB() *sql.DB {
	return d.db
}

// WithConn acquires a dedicated connection for the duration of fn and always
// releases it, whether fn succeeds, fails or panics.
func (d *Database) WithConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("database: acquire conn: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			d.log.WarnContext(ctx, "database: release conn", "error", cerr)
		}
	}()
	return fn(conn)
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back on error or panic.
func (d *Database) WithTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("database: begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				d.log.WarnContext(ctx, "database: rollback", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("database: commit: %w", err)
	}
	return nil
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

// Close closes the pool. Errors are logged; there is nothing left to do with them.
func (d *Database) Close() {
	if err := d.db.Close(); err != nil {
		d.log.Error("database: close", "error", err)
	}
}
