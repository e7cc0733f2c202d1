package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"usersvc/internal/errors"
)

// dialect captures what differs between the supported stores.
type dialect struct {
	name   string
	driver string

	// createUsers is the idempotent DDL for the users table.
	createUsers string

	// bootstrapPragmas run once, outside a transaction, before the DDL.
	bootstrapPragmas []string

	// sessionPragmas run on every new session.
	sessionPragmas []string

	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
}

var postgresDialect = &dialect{
	name:   "postgres",
	driver: "pgx",
	createUsers: `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR NOT NULL,
			email VARCHAR NOT NULL UNIQUE
		)`,
	numbered: true,
}

var sqliteDialect = &dialect{
	name:   "sqlite",
	driver: "sqlite",
	createUsers: `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE
		)`,
	bootstrapPragmas: []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for concurrent readers
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
	},
	sessionPragmas: []string{
		"PRAGMA busy_timeout=5000", // Wait up to 5 seconds on lock
		"PRAGMA foreign_keys=ON",
	},
}

func dialectFor(dsn string) *dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return postgresDialect
	}
	return sqliteDialect
}

// rebind rewrites ? placeholders for dialects that number them.
func (d *dialect) rebind(query string) string {
	if !d.numbered {
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

// Bootstrap creates the users table if it does not exist. It is safe to
// run on every start.
func (g *Gateway) Bootstrap(ctx context.Context) error {
	s, err := g.Connect(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, pragma := range g.dialect.bootstrapPragmas {
		if _, err := s.conn.ExecContext(ctx, pragma); err != nil {
			return errors.New(errors.StoreFailure, "set pragma", err)
		}
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, g.dialect.createUsers); err != nil {
			return fmt.Errorf("create users table: %w", err)
		}
		return nil
	})
	if err != nil {
		return errors.New(errors.StoreFailure, "bootstrap schema", err)
	}

	g.logger.Info("Store schema ready", "dialect", g.dialect.name)
	return nil
}
