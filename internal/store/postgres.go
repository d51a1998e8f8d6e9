package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by a PostgreSQL database. Tables are created in
// the connection's current schema.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database at url and verifies the connection.
func OpenPostgres(ctx context.Context, url string, connectTimeout time.Duration) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// One invocation, one connection.
	poolConfig.MaxConns = 1
	poolConfig.MinConns = 0
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	pingCtx := ctx
	if connectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, connectTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrUnavailable, err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Dialect() Dialect { return DialectPostgres }

func (p *Postgres) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := p.db().QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1
		)`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check table %q: %w", table, err)
	}
	return exists, nil
}

func (p *Postgres) CreateTable(ctx context.Context, table string, cols []Column) error {
	if len(cols) == 0 {
		return fmt.Errorf("create table %q: no columns", table)
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", sanitize(table), columnDefs(cols, sanitize))
	if _, err := p.db().Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create table %q: %w", table, err)
	}
	return nil
}

// InsertRows loads rows with COPY inside one transaction.
func (p *Postgres) InsertRows(ctx context.Context, table string, cols []Column, rows [][]string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		if len(row) != len(cols) {
			return 0, fmt.Errorf("insert into %q: row %d has %d fields, want %d", table, i, len(row), len(cols))
		}
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		values[i] = vals
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op after commit

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, ColumnNames(cols), pgx.CopyFromRows(values))
	if err != nil {
		return 0, fmt.Errorf("copy into %q: %w", table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func (p *Postgres) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := p.db().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (p *Postgres) Columns(ctx context.Context, table string) ([]string, error) {
	cols, err := p.QueryStrings(ctx, `
		SELECT column_name::text FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("columns of %q: %w", table, err)
	}
	return cols, nil
}

func (p *Postgres) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := p.db().QueryRow(ctx, "SELECT COUNT(*) FROM "+sanitize(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows of %q: %w", table, err)
	}
	return n, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) db() DBTX { return p.pool }

func sanitize(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
