// Package core provides the business logic for loading delimited-text files
// into a relational store and answering the fixed country/language question.
//
// This package is independent of the command line: it takes an explicit
// [store.Store] handle and a logger, and can be driven by the CLI or by tests.
//
// # Import Flow
//
// For each path given to [Importer.ImportFiles]:
//
//  1. The path must name a regular file, otherwise the outcome is [OutcomeMissing].
//  2. The table name is derived with [TableName].
//  3. If a table of that name already exists the file is not read at all
//     ([OutcomeSkippedExisting]).
//  4. Otherwise [Importer.CreateTableFromFile] sniffs the delimiter, cleans the
//     header, creates an all-TEXT table and inserts the surviving rows in one
//     transaction.
//
// No per-file problem stops the run; each one is reported in the file's
// [ImportResult] and logged.
//
// # Named Policy Outcomes
//
// The lenient behaviors are explicit decision points so they can be tested
// directly:
//
//   - [SniffDelimiter] returns [SniffFallback] with a comma when no candidate
//     delimiter is consistent across the sample.
//   - [ClassifyRow] returns [RowBlank] for whitespace-only rows and
//     [RowMalformed] for rows whose width differs from the header. Both are
//     discarded; malformed rows are never padded or truncated.
//
// # Error Handling
//
// Technical errors are mapped to diagnostics with support codes by [MapError]:
//
//   - FILE001-FILE003: per-file import problems (non-fatal)
//   - STORE001-STORE002: the store is missing or unreachable (fatal)
//   - CFG001: invalid configuration (fatal)
//   - QRY001: the fixed query cannot run (fatal)
package core
