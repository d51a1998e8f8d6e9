package core

import (
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/worlddb/internal/store"
)

// Tables the fixed query reads.
const (
	CountryTable         = "country"
	CountryLanguageTable = "countrylanguage"
)

// SpanishSpeakingCountries is the question answered after every import run.
var SpanishSpeakingCountries = FixedQuery{
	Question: "In what countries is used the Spanish language? Provide their full names, sorted alphabetically.",
	Language: "Spanish",
}

// FixedQuery lists the distinct names of the countries that use Language,
// in ascending byte order.
type FixedQuery struct {
	Question string
	Language string
}

// SQLite resolves a double-quoted identifier that names no column to a string
// literal, so its identifiers stay bare and a missing column is an error.
const sqliteCountriesByLanguage = `SELECT DISTINCT c.Name
FROM country AS c
JOIN countrylanguage AS cl ON c.Code = cl.CountryCode
WHERE cl.Language = ?
ORDER BY c.Name`

// PostgreSQL folds bare identifiers to lower case; the imported columns keep
// their header case and must be quoted. COLLATE "C" gives byte order.
const postgresCountriesByLanguage = `SELECT name FROM (
	SELECT DISTINCT c."Name" AS name
	FROM "country" AS c
	JOIN "countrylanguage" AS cl ON c."Code" = cl."CountryCode"
	WHERE cl."Language" = $1
) AS d
ORDER BY name COLLATE "C"`

// SQL returns the statement for the given dialect.
func (q FixedQuery) SQL(d store.Dialect) string {
	if d == store.DialectPostgres {
		return postgresCountriesByLanguage
	}
	return sqliteCountriesByLanguage
}

// Run executes the query. Any failure, including missing tables or columns,
// wraps ErrQueryFailed.
func (q FixedQuery) Run(ctx context.Context, st store.Store) ([]string, error) {
	names, err := st.QueryStrings(ctx, q.SQL(st.Dialect()), q.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return names, nil
}

// WriteAnswer prints the question followed by one name per line.
func (q FixedQuery) WriteAnswer(w io.Writer, names []string) error {
	if _, err := fmt.Fprintln(w, q.Question); err != nil {
		return err
	}
	for _, n := range names {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}
