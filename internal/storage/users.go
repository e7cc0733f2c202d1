package storage

import (
	"context"
	"database/sql"
	"fmt"

	"usersvc/internal/errors"
	"usersvc/internal/user"
)

// Session is one dedicated store connection, owned by a single request.
type Session struct {
	conn    *sql.Conn
	dialect *dialect
}

// Close returns the connection to the gateway.
func (s *Session) Close() error {
	return s.conn.Close()
}

// withTx executes fn within a transaction on this session.
// If fn returns an error, the transaction is rolled back.
func (s *Session) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateUser inserts u and returns the id the store assigned.
func (s *Session) CreateUser(ctx context.Context, u user.User) (int64, error) {
	var id int64
	err := s.conn.QueryRowContext(ctx, s.dialect.rebind(`
		INSERT INTO users (name, email) VALUES (?, ?) RETURNING id
	`), u.Name, u.Email).Scan(&id)
	if err != nil {
		return 0, errors.New(errors.StoreFailure, "insert user", err)
	}
	return id, nil
}

// GetUser retrieves a user by id. It returns nil, nil when no row matches.
func (s *Session) GetUser(ctx context.Context, id int64) (*user.User, error) {
	var (
		rowID int64
		u     user.User
	)
	err := s.conn.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT id, name, email FROM users WHERE id = ?
	`), id).Scan(&rowID, &u.Name, &u.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(errors.StoreFailure, "select user", err)
	}

	u = u.WithID(rowID)
	return &u, nil
}

// ListUsers returns every user ordered by id. The slice is empty, not
// nil, when the table is.
func (s *Session) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.New(errors.StoreFailure, "select users", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		var (
			id int64
			u  user.User
		)
		if err := rows.Scan(&id, &u.Name, &u.Email); err != nil {
			return nil, errors.New(errors.StoreFailure, "scan user", err)
		}
		users = append(users, u.WithID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.StoreFailure, "iterate users", err)
	}
	return users, nil
}

// UpdateUser overwrites name and email of the user with the given id and
// reports the number of rows affected.
func (s *Session) UpdateUser(ctx context.Context, id int64, u user.User) (int64, error) {
	res, err := s.conn.ExecContext(ctx, s.dialect.rebind(`
		UPDATE users SET name = ?, email = ? WHERE id = ?
	`), u.Name, u.Email, id)
	if err != nil {
		return 0, errors.New(errors.StoreFailure, "update user", err)
	}
	return rowsAffected(res)
}

// DeleteUser removes the user with the given id and reports the number of
// rows affected.
func (s *Session) DeleteUser(ctx context.Context, id int64) (int64, error) {
	res, err := s.conn.ExecContext(ctx, s.dialect.rebind(`
		DELETE FROM users WHERE id = ?
	`), id)
	if err != nil {
		return 0, errors.New(errors.StoreFailure, "delete user", err)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.New(errors.StoreFailure, "rows affected", err)
	}
	return n, nil
}
