package db

import (
	"context"
	"database/sql"
)

// Row is one result row, columns in select order.
type Row []any

// ScanFunc reads the current row of rows into a value.
type ScanFunc[T any] func(rows *sql.Rows) (T, error)

// QueryRows runs a statement and returns every resulting row. It runs in
// a read transaction that is rolled back, so nothing is committed.
func QueryRows(ctx context.Context, db *sql.DB, query string, args ...any) ([]Row, error) {
	var result []Row
	err := WithReadTx(ctx, db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		for rows.Next() {
			row := make(Row, len(cols))
			ptrs := make([]any, len(cols))
			for i := range row {
				ptrs[i] = &row[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			result = append(result, row)
		}
		return rows.Err()
	})
	return result, err
}

// Query runs a statement and converts each row with scan. Like
// QueryRows, nothing is committed.
func Query[T any](ctx context.Context, db *sql.DB, scan ScanFunc[T], query string, args ...any) ([]T, error) {
	var result []T
	err := WithReadTx(ctx, db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				return err
			}
			result = append(result, v)
		}
		return rows.Err()
	})
	return result, err
}

// Exec runs a statement inside a transaction and commits it before
// returning. Used for mutations; no rows are returned.
func Exec(ctx context.Context, db *sql.DB, query string, args ...any) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
}
