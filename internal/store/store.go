// Package store provides the relational stores that imported tables live in.
//
// Two backends implement [Store]:
//
//   - SQLite: a single file in the working directory (the default), accessed
//     through sqlx and the pure-Go modernc.org/sqlite driver.
//   - PostgreSQL: selected by a connection URL, accessed through pgx. Batch
//     inserts use the COPY protocol.
//
// Every table created here has text-typed columns only and no indexes,
// constraints or keys.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnavailable indicates the store does not exist or cannot be reached.
var ErrUnavailable = errors.New("store unavailable")

// Dialect identifies the SQL flavor a store speaks.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ColumnType is the storage type of a column. Imported data is never typed
// beyond its literal text.
type ColumnType string

// ColumnText is the only column type tables are created with.
const ColumnText ColumnType = "TEXT"

// Column is one (name, type) pair of a runtime-built table schema.
type Column struct {
	Name string
	Type ColumnType
}

// TextColumns builds an ordered TEXT schema from header names.
func TextColumns(names []string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Type: ColumnText}
	}
	return cols
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Store is a handle to a relational store owned by one invocation.
type Store interface {
	// Dialect reports the SQL flavor of the store.
	Dialect() Dialect

	// TableExists reports whether a table with exactly this name exists.
	TableExists(ctx context.Context, table string) (bool, error)

	// CreateTable creates a table with the given ordered columns.
	CreateTable(ctx context.Context, table string, cols []Column) error

	// InsertRows inserts all rows in a single transaction and commits it.
	// Every row must have len(cols) fields.
	InsertRows(ctx context.Context, table string, cols []Column, rows [][]string) (int64, error)

	// QueryStrings runs a read-only query whose rows have one text column.
	QueryStrings(ctx context.Context, query string, args ...any) ([]string, error)

	// Columns returns the column names of table in ordinal order.
	Columns(ctx context.Context, table string) ([]string, error)

	// CountRows returns the number of rows in table.
	CountRows(ctx context.Context, table string) (int64, error)

	// Close releases the handle.
	Close() error
}

// DBTX is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// quoteIdent quotes an identifier for SQLite, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// columnDefs renders `"name" TEXT, ...` using quote for identifiers.
func columnDefs(cols []Column, quote func(string) string) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		typ := c.Type
		if typ == "" {
			typ = ColumnText
		}
		defs[i] = quote(c.Name) + " " + string(typ)
	}
	return strings.Join(defs, ", ")
}
