// Package sqldb implements the repository interfaces on top of database/sql.
//
// Two engines are supported, picked from the DATABASE_URL scheme:
//
//	sqlite://data/shopping_list.db   → modernc.org/sqlite (pure Go, no CGo), relative path
//	sqlite:///./shopping_list.db     → same, relative path
//	sqlite:////var/lib/shop.db       → absolute path (four slashes)
//	:memory:                         → in-memory SQLite (tests)
//	postgres://user:pw@host/db       → jackc/pgx/v5 through its database/sql adapter
//
// Queries are written once with `?` placeholders. For Postgres, rebind turns
// them into `$1, $2, ...` before they reach the driver.
//
// UNITS OF WORK:
// Every write runs inside withTx. The transaction commits only if the callback
// returns nil; an error or a panic rolls it back, so a request never leaves
// half its changes behind. Deleting a list removes its items in the same
// transaction.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	// Both imports register a database/sql driver in init():
	// "sqlite" (modernc) and "pgx" (jackc).
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL engine behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Options configures the connection pool. Zero values keep database/sql defaults.
type Options struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB owns the connection pool and hands out the two stores.
type DB struct {
	conn    *sql.DB
	dialect Dialect
	now     func() time.Time
}

// New opens the database named by opts.URL, applies pending migrations and
// returns a ready DB. The caller must Close it.
func New(ctx context.Context, opts Options) (*DB, error) {
	dialect, driver, dsn, err := parseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqldb: opening database: %w", err)
	}

	db := &DB{conn: conn, dialect: dialect, now: defaultClock}
	if err := db.configure(ctx, opts); err != nil {
		return nil, multierr.Append(err, conn.Close())
	}

	if err := db.migrate(ctx); err != nil {
		return nil, multierr.Append(fmt.Errorf("sqldb: running migrations: %w", err), conn.Close())
	}

	return db, nil
}

func (db *DB) configure(ctx context.Context, opts Options) error {
	switch db.dialect {
	case DialectSQLite:
		// SQLite allows one writer at a time, and each ":memory:" connection
		// is its own database. A single connection avoids both problems.
		db.conn.SetMaxOpenConns(1)
	default:
		if opts.MaxOpenConns > 0 {
			db.conn.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.conn.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqldb: pinging database: %w", err)
	}

	if db.dialect == DialectSQLite {
		// Foreign keys are OFF by default in SQLite; ON DELETE CASCADE needs them.
		if _, err := db.conn.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
			return fmt.Errorf("sqldb: enabling foreign keys: %w", err)
		}
		if _, err := db.conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("sqldb: setting WAL mode: %w", err)
		}
	}
	return nil
}

// parseURL maps a DATABASE_URL onto a dialect, a driver name and a DSN.
func parseURL(raw string) (Dialect, string, string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "", "", "", fmt.Errorf("sqldb: database url is required")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, "pgx", raw, nil
	case raw == ":memory:":
		return DialectSQLite, "sqlite", raw, nil
	}

	path := raw
	switch {
	case strings.HasPrefix(raw, "sqlite:///"):
		path = strings.TrimPrefix(raw, "sqlite:///")
	case strings.HasPrefix(raw, "sqlite://"):
		path = strings.TrimPrefix(raw, "sqlite://")
	case strings.HasPrefix(raw, "file:"):
		return DialectSQLite, "sqlite", raw, nil
	case strings.Contains(raw, "://"):
		return "", "", "", fmt.Errorf("sqldb: unsupported database url %q", raw)
	}
	if path == "" {
		return "", "", "", fmt.Errorf("sqldb: database url %q has no path", raw)
	}
	if path == ":memory:" {
		return DialectSQLite, "sqlite", path, nil
	}

	// Create the parent directory, like `mkdir -p`.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", "", fmt.Errorf("sqldb: creating database directory %s: %w", dir, err)
		}
	}
	return DialectSQLite, "sqlite", path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
}

// Dialect reports which engine the DB talks to.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Ping checks the database is reachable. Used by /healthz.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Lists returns the shopping list store.
func (db *DB) Lists() *ListStore {
	return &ListStore{db: db}
}

// Items returns the shopping item store.
func (db *DB) Items() *ItemStore {
	return &ItemStore{db: db}
}

// defaultClock truncates to microseconds, the finest precision Postgres
// stores, so a value read back equals the value written.
func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// rebind rewrites `?` placeholders into `$n` for Postgres.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// queryer is satisfied by both *sql.DB and *sql.Tx, so helpers can run
// inside or outside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx executes fn inside a transaction, rolling back on error or panic.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqldb: beginning transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return multierr.Append(err, fmt.Errorf("sqldb: rolling back: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqldb: committing transaction: %w", err)
	}
	return nil
}
