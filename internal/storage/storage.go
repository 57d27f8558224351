// Package storage persists pipeline runs in SQLite.
package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// ErrNoRun is returned when no stored run matches a lookup.
var ErrNoRun = errors.New("no matching run")

// ErrNotFound is returned when a run exists but holds no row for the key.
var ErrNotFound = errors.New("not found")

// DB wraps a sql.DB for the awards store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// each connection to :memory: is a separate database
		conn.SetMaxOpenConns(1)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func columns[T any](fields []model.Field[T]) string {
	return strings.Join(model.Names(fields), ", ")
}

// insertRows bulk-inserts rows into table, prefixing every row with runID.
func insertRows[T any](tx *sql.Tx, table, runID string, fields []model.Field[T], rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s(run_id, %s) VALUES (%s)",
		table, columns(fields), placeholders(len(fields)+1)))
	if err != nil {
		return fmt.Errorf("prepare %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(fields)+1)
	args[0] = runID
	for i := range rows {
		for j, f := range fields {
			args[j+1] = model.Deref(f.Ref(&rows[i]))
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}
	return nil
}

// scanRows reads every row of a query selecting exactly the layout's columns.
func scanRows[T any](rows *sql.Rows, fields []model.Field[T]) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		var r T
		dest := make([]any, len(fields))
		for i, f := range fields {
			dest[i] = f.Ref(&r)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// selectRows runs "SELECT <layout columns> FROM table <where>" and scans the result.
func selectRows[T any](db *DB, table string, fields []model.Field[T], where string, args ...any) ([]T, error) {
	rows, err := db.conn.Query(fmt.Sprintf("SELECT %s FROM %s %s", columns(fields), table, where), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return scanRows(rows, fields)
}

// QueryRaw runs an arbitrary query and returns the column names and every
// row rendered as text. NULL renders as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
