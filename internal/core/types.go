package core

import "time"

// ImportOutcome is the per-file result of an import attempt.
type ImportOutcome string

const (
	OutcomeImported        ImportOutcome = "imported"
	OutcomeSkippedExisting ImportOutcome = "skipped_existing"
	OutcomeMissing         ImportOutcome = "missing"
	OutcomeEmpty           ImportOutcome = "empty"
	OutcomeFailed          ImportOutcome = "failed"
)

// SniffOutcome tells whether the delimiter was inferred or defaulted.
type SniffOutcome string

const (
	SniffDetected SniffOutcome = "detected"
	SniffFallback SniffOutcome = "fallback"
)

// SniffResult is the decision made by [SniffDelimiter].
type SniffResult struct {
	Delimiter rune
	Outcome   SniffOutcome
}

// RowDecision is the fate of one data row.
type RowDecision string

const (
	RowKeep      RowDecision = "keep"
	RowBlank     RowDecision = "blank"
	RowMalformed RowDecision = "malformed"
)

// FailedRow describes a discarded malformed row. Only collected when
// malformed-row reporting is enabled.
type FailedRow struct {
	LineNumber int
	Reason     string
	Data       []string
}

// ImportResult contains the final result of importing one file.
type ImportResult struct {
	Path     string
	Table    string
	Outcome  ImportOutcome
	Sniff    SniffResult
	Columns  []string
	RowsRead int // data rows after the header, including discarded ones
	Inserted int64
	Blank    int
	// Malformed counts rows whose field count differed from the header.
	Malformed  int
	FailedRows []FailedRow
	BytesRead  int64
	Duration   time.Duration
	Err        error // non-nil for OutcomeMissing, OutcomeEmpty and OutcomeFailed
}

// Summary aggregates the results of one run.
type Summary struct {
	Imported int
	Skipped  int
	Missing  int
	Empty    int
	Failed   int
	Rows     int64
}

// Summarize counts outcomes across results.
func Summarize(results []ImportResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeImported:
			s.Imported++
			s.Rows += r.Inserted
		case OutcomeSkippedExisting:
			s.Skipped++
		case OutcomeMissing:
			s.Missing++
		case OutcomeEmpty:
			s.Empty++
		case OutcomeFailed:
			s.Failed++
		}
	}
	return s
}
