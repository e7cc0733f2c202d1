// Package storage is the gateway to the relational store holding the
// users table. It supports PostgreSQL (pgx) and SQLite (modernc).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // Pure Go SQLite driver

	"usersvc/internal/errors"
)

// Options tunes the gateway's connection handling.
type Options struct {
	// MaxOpenConns bounds concurrent store connections; 0 means no limit.
	MaxOpenConns int
}

// Gateway mediates all store access. Each request takes its own Session
// through Connect and releases it when done.
type Gateway struct {
	conn    *sql.DB
	dialect *dialect
	logger  *slog.Logger
}

// Open prepares a gateway for dsn. postgres:// and postgresql:// URLs
// select PostgreSQL; anything else is a SQLite path or file: URI.
// No connection is made until Connect or Bootstrap.
func Open(dsn string, opts Options, logger *slog.Logger) (*Gateway, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty store connection string")
	}

	d := dialectFor(dsn)
	source := dsn
	if d.name == "sqlite" {
		source = strings.TrimPrefix(dsn, "sqlite://")
		if err := ensureDir(source); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open(d.driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	maxOpen := opts.MaxOpenConns
	if d.name == "sqlite" && isMemory(source) {
		// Every SQLite connection to :memory: is its own database, so the
		// schema and rows must live on exactly one.
		maxOpen = 1
	}
	conn.SetMaxOpenConns(maxOpen)

	logger.Debug("Store opened", "dialect", d.name, "maxOpenConns", maxOpen)

	return &Gateway{
		conn:    conn,
		dialect: d,
		logger:  logger,
	}, nil
}

// Dialect reports "postgres" or "sqlite".
func (g *Gateway) Dialect() string {
	return g.dialect.name
}

// Close closes the database connection
func (g *Gateway) Close() error {
	if g.conn != nil {
		return g.conn.Close()
	}
	return nil
}

// Connect opens a dedicated store connection for one request. The caller
// must Close the returned Session.
func (g *Gateway) Connect(ctx context.Context) (*Session, error) {
	conn, err := g.conn.Conn(ctx)
	if err != nil {
		return nil, errors.New(errors.StoreUnavailable, "connect to store", err)
	}

	for _, pragma := range g.dialect.sessionPragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return nil, errors.New(errors.StoreUnavailable, "prepare store session", err)
		}
	}

	return &Session{conn: conn, dialect: g.dialect}, nil
}

// sqlitePath strips the file: scheme and URI parameters from source.
func sqlitePath(source string) string {
	path := source
	if strings.HasPrefix(path, "file:") {
		path = strings.TrimPrefix(path, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
	}
	return path
}

// isMemory reports whether source names an in-memory SQLite database.
func isMemory(source string) bool {
	return sqlitePath(source) == ":memory:" || strings.Contains(source, "mode=memory")
}

// ensureDir creates the parent directory of a SQLite database file.
func ensureDir(source string) error {
	if isMemory(source) {
		return nil
	}
	path := sqlitePath(source)
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}
