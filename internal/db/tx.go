package db

import (
	"context"
	"database/sql"
)

// WithTx executes fn within a transaction on a dedicated connection.
// It handles Begin, Rollback on error, and Commit on success.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	return WithConn(ctx, db, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// WithReadTx executes fn within a transaction that is always rolled
// back. Statements that write still run, but nothing they do is kept.
func WithReadTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	return WithConn(ctx, db, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback() //nolint:errcheck // nothing is ever committed
		return fn(tx)
	})
}

// WithConn acquires a connection from db, runs fn and releases the
// connection on every exit path.
func WithConn(ctx context.Context, db *sql.DB, fn func(conn *sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}
