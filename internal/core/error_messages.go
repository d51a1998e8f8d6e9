package core

// Error codes reference
//
//	FILE001 - File not found: the path does not name a regular file (non-fatal)
//	FILE002 - Empty file: no header row, no table created (non-fatal)
//	FILE003 - Import failed: the file could not be read or the store rejected it (non-fatal)
//	STORE001 - No store: no files given and the store does not exist (fatal)
//	STORE002 - Store unreachable: the store could not be opened (fatal)
//	CFG001 - Invalid configuration: an environment variable or flag is invalid (fatal)
//	QRY001 - Query failed: the expected tables or columns are missing (fatal)
//	ERR000 - Unknown error
//
// Sentinel errors are matched first with errors.Is, then PostgreSQL error
// codes. Otherwise the error text is matched case-insensitively against
// patterns, first match wins.

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/worlddb/internal/config"
	"github.com/JonMunkholm/worlddb/internal/store"
)

var (
	// ErrFileNotFound indicates an input path is absent or not a regular file.
	ErrFileNotFound = errors.New("CSV file not found")

	// ErrEmptyFile indicates an input file has no header row.
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrImportFailed indicates an input file could not be imported.
	ErrImportFailed = errors.New("import failed")

	// ErrNoStore indicates no files were given and the store does not exist.
	ErrNoStore = errors.New("no CSV files specified and database does not exist")

	// ErrQueryFailed indicates the fixed query could not run.
	ErrQueryFailed = errors.New("query failed")
)

// UserMessage provides a diagnostic with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrQueryFailed, UserMessage{
		Message: "Error while executing the query. Make sure the tables 'country' and 'countrylanguage' were correctly created from the CSV files.",
		Action:  "Run again with country.csv and countrylanguage.csv as arguments",
		Code:    "QRY001",
	}},
	{ErrNoStore, UserMessage{
		Message: "No CSV files specified and the database does not exist.",
		Action:  "Pass the CSV files to import as arguments",
		Code:    "STORE001",
	}},
	{store.ErrUnavailable, UserMessage{
		Message: "Unable to open the database.",
		Action:  "Check the database path or connection URL",
		Code:    "STORE002",
	}},
	{ErrFileNotFound, UserMessage{
		Message: "CSV file not found.",
		Action:  "Check the file path",
		Code:    "FILE001",
	}},
	{ErrEmptyFile, UserMessage{
		Message: "CSV file is empty.",
		Action:  "Provide a file with a header row",
		Code:    "FILE002",
	}},
	{ErrImportFailed, UserMessage{
		Message: "CSV file could not be imported.",
		Action:  "Check that the header has unique, non-empty column names",
		Code:    "FILE003",
	}},
	{config.ErrInvalid, UserMessage{
		Message: "Invalid configuration.",
		Action:  "Check the WORLDDB_* and LOG_* environment variables and the command-line flags",
		Code:    "CFG001",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch store errors that arrive without a sentinel.
var errorPatterns = []errorPattern{
	{"no such table", sentinelMessages[0].msg},
	{"no such column", sentinelMessages[0].msg},
	{"does not exist", sentinelMessages[0].msg},
	{"connection refused", sentinelMessages[2].msg},
	{"duplicate column", sentinelMessages[5].msg},
	{"specified more than once", sentinelMessages[5].msg},
}

var pgErrorMessages = map[string]UserMessage{
	pgerrcode.UndefinedTable:         sentinelMessages[0].msg,
	pgerrcode.UndefinedColumn:        sentinelMessages[0].msg,
	pgerrcode.InvalidCatalogName:     sentinelMessages[2].msg,
	pgerrcode.InvalidPassword:        sentinelMessages[2].msg,
	pgerrcode.DuplicateColumn:        sentinelMessages[5].msg,
	pgerrcode.InvalidColumnReference: sentinelMessages[5].msg,
	pgerrcode.NameTooLong:            sentinelMessages[5].msg,
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred.",
	Action:  "Run again with --log-level=debug for details",
	Code:    "ERR000",
}

// MapError converts a technical error into a diagnostic.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := pgErrorMessages[pgErr.Code]; ok {
			return msg
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}

// FormatDiagnostic renders err as the lines printed on stderr: the message
// with its code, then the underlying details.
func FormatDiagnostic(err error) string {
	msg := MapError(err)
	if msg.Code == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(msg.Message)
	b.WriteString(" [")
	b.WriteString(msg.Code)
	b.WriteString("]\n")
	b.WriteString("Details: ")
	b.WriteString(err.Error())
	b.WriteString("\n")
	if msg.Action != "" {
		b.WriteString("Action: ")
		b.WriteString(msg.Action)
		b.WriteString("\n")
	}
	return b.String()
}
