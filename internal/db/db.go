// Package db owns database connectivity: a lazily-initialized bounded
// connection pool plus the connection-injection helpers the repositories are
// built on. A nil Querier handed to WithConn/WithTx means "acquire from the
// pool for the duration of the call"; a non-nil one is borrowed from the
// caller and never released here.
package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"

	"github.com/invoicedesk/invoicedesk/types"
)

// logVerbose emits pool lifecycle diagnostics only when verbose mode is on,
// matching the rest of the tree's logging.
func logVerbose(format string, args ...any) {
	if viper.GetBool("verbose") {
		log.Printf(format, args...)
	}
}

const (
	defaultMinConns = 1
	defaultMaxConns = 10
)

// DB manages a single PostgreSQL connection pool. Construct one at process
// start with New, pass it by reference to every repository, and Close it at
// process stop.
type DB struct {
	cfg types.DatabaseConfig

	mu   sync.Mutex
	pool *pgxpool.Pool

	acquireTimeout time.Duration
}

// New builds a DB handle from configuration. No connection is made until
// Connect (or the first WithConn/WithTx) is called.
func New(cfg types.DatabaseConfig) *DB {
	return &DB{
		cfg:            cfg,
		acquireTimeout: time.Duration(cfg.AcquireTimeoutSeconds) * time.Second,
	}
}

// DSN returns the connection string, either the configured URL verbatim or
// one assembled from the discrete parameters.
func (d *DB) DSN() string {
	if d.cfg.URL != "" {
		return d.cfg.URL
	}
	host := d.cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := d.cfg.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		url.QueryEscape(d.cfg.User),
		url.QueryEscape(d.cfg.Password),
		fmt.Sprintf("%s:%d", host, port),
		d.cfg.Name,
	)
}

// Connect creates the connection pool if it does not exist yet and returns
// it. It is safe to call concurrently; all callers observe the same pool.
// Pool creation failure is logged and returned, never swallowed.
func (d *DB) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool != nil {
		return d.pool, nil
	}

	poolCfg, err := pgxpool.ParseConfig(d.DSN())
	if err != nil {
		log.Printf("[DB] invalid connection config: %v", err)
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolCfg.MinConns = defaultMinConns
	if d.cfg.MinConns > 0 {
		poolCfg.MinConns = d.cfg.MinConns
	}
	poolCfg.MaxConns = defaultMaxConns
	if d.cfg.MaxConns > 0 {
		poolCfg.MaxConns = d.cfg.MaxConns
	}
	if d.cfg.StatementTimeoutSeconds > 0 {
		ms := d.cfg.StatementTimeoutSeconds * 1000
		poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.Itoa(ms)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Printf("[DB] failed to create connection pool: %v", err)
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	d.pool = pool
	logVerbose("[DB] connection pool created (min=%d max=%d)", poolCfg.MinConns, poolCfg.MaxConns)
	return d.pool, nil
}

// Close shuts down the pool and discards it. A later Connect recreates it.
func (d *DB) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
		logVerbose("[DB] connection pool closed")
	}
}

// acquire takes one connection from the pool, bounded by the configured
// acquire timeout when one is set.
func (d *DB) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	pool, err := d.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if d.acquireTimeout > 0 {
		acquireCtx, cancel := context.WithTimeout(ctx, d.acquireTimeout)
		defer cancel()
		conn, err := pool.Acquire(acquireCtx)
		if err != nil {
			return nil, fmt.Errorf("acquire connection: %w", err)
		}
		return conn, nil
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

// WithConn runs fn with a database connection. If q is non-nil it is a
// borrowed connection: fn runs on it directly and it is not released here.
// Otherwise a connection is acquired from the pool and released on every
// exit path. Failures are logged with the caller's label and re-raised.
func (d *DB) WithConn(ctx context.Context, label string, q Querier, fn func(Querier) error) error {
	if q != nil {
		if err := fn(q); err != nil {
			log.Printf("[DB] error in %s: %v", label, err)
			return err
		}
		return nil
	}

	conn, err := d.acquire(ctx)
	if err != nil {
		log.Printf("[DB] error in %s: %v", label, err)
		return err
	}
	defer conn.Release()

	if err := fn(conn); err != nil {
		log.Printf("[DB] error in %s: %v", label, err)
		return err
	}
	return nil
}

// WithTx runs fn inside a database transaction. With a nil q a connection is
// acquired from the pool, the transaction begun on it, and the connection
// released afterwards. With a borrowed Querier that can begin transactions a
// nested transaction is started on it; the caller's connection is never
// released here. The transaction commits when fn returns nil and rolls back
// otherwise.
func (d *DB) WithTx(ctx context.Context, label string, q Querier, fn func(Querier) error) error {
	if q != nil {
		b, ok := q.(Beginner)
		if !ok {
			// Borrowed querier cannot open a transaction; run as-is. This
			// happens when fn is already executing inside one.
			if err := fn(q); err != nil {
				log.Printf("[DB] error in %s: %v", label, err)
				return err
			}
			return nil
		}
		tx, err := b.Begin(ctx)
		if err != nil {
			log.Printf("[DB] begin transaction in %s: %v", label, err)
			return fmt.Errorf("begin transaction: %w", err)
		}
		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Printf("[DB] rollback in %s: %v", label, rbErr)
			}
			log.Printf("[DB] error in %s: %v", label, err)
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			log.Printf("[DB] commit in %s: %v", label, err)
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	}

	conn, err := d.acquire(ctx)
	if err != nil {
		log.Printf("[DB] error in %s: %v", label, err)
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		log.Printf("[DB] begin transaction in %s: %v", label, err)
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Printf("[DB] rollback in %s: %v", label, rbErr)
		}
		log.Printf("[DB] error in %s: %v", label, err)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		log.Printf("[DB] commit in %s: %v", label, err)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
