package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a single SQLite file.
type SQLite struct {
	db   *sqlx.DB
	path string
}

// OpenSQLite opens (creating if necessary) the SQLite store at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// One invocation, one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	return &SQLite{db: db, path: path}, nil
}

// Path returns the store file path.
func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Dialect() Dialect { return DialectSQLite }

func (s *SQLite) TableExists(ctx context.Context, table string) (bool, error) {
	var name string
	err := s.db.GetContext(ctx, &name,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %q: %w", table, err)
	}
	return true, nil
}

func (s *SQLite) CreateTable(ctx context.Context, table string, cols []Column) error {
	if len(cols) == 0 {
		return fmt.Errorf("create table %q: no columns", table)
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), columnDefs(cols, quoteIdent))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %q: %w", table, err)
	}
	return nil
}

func (s *SQLite) InsertRows(ctx context.Context, table string, cols []Column, rows [][]string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op after commit

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PreparexContext(ctx,
		fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), placeholders))
	if err != nil {
		return 0, fmt.Errorf("prepare insert into %q: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for i, row := range rows {
		if len(row) != len(cols) {
			return 0, fmt.Errorf("insert into %q: row %d has %d fields, want %d", table, i, len(row), len(cols))
		}
		for j, v := range row {
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert into %q: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int64(len(rows)), nil
}

func (s *SQLite) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	var out []string
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) Columns(ctx context.Context, table string) ([]string, error) {
	var cols []string
	err := s.db.SelectContext(ctx, &cols,
		`SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("columns of %q: %w", table, err)
	}
	return cols, nil
}

func (s *SQLite) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+quoteIdent(table)); err != nil {
		return 0, fmt.Errorf("count rows of %q: %w", table, err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
