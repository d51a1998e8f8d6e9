package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/JonMunkholm/worlddb/internal/config"
	"github.com/JonMunkholm/worlddb/internal/logging"
	"github.com/JonMunkholm/worlddb/internal/store"
)

// ContextCheckInterval is how often, in rows, the import loop checks for
// context cancellation.
var ContextCheckInterval = 100

// Options tune how files are read.
type Options struct {
	// SampleSize is the number of leading bytes given to the sniffer.
	SampleSize int

	// Delimiters are the sniffer candidates in preference order.
	Delimiters []rune

	// ReportMalformed logs every discarded row and collects it in
	// ImportResult.FailedRows.
	ReportMalformed bool

	// Clock times each import. Defaults to the real clock.
	Clock clockwork.Clock
}

// OptionsFromConfig converts import configuration into Options.
func OptionsFromConfig(cfg config.ImportConfig) Options {
	return Options{
		SampleSize:      cfg.SampleSize,
		Delimiters:      cfg.DelimiterRunes(),
		ReportMalformed: cfg.ReportMalformed,
	}
}

// Importer loads CSV files into tables of a store. Files are processed one at
// a time, in the order given.
type Importer struct {
	store store.Store
	log   *slog.Logger
	opts  Options
}

// NewImporter creates an Importer writing into st. A nil log uses slog.Default().
func NewImporter(st store.Store, log *slog.Logger, opts Options) *Importer {
	if log == nil {
		log = slog.Default()
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultSampleSize
	}
	if len(opts.Delimiters) == 0 {
		opts.Delimiters = DefaultDelimiters
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Importer{store: st, log: log, opts: opts}
}

// ImportFiles imports every path in order. Failures are recorded in the
// returned results and never stop the remaining files; only cancellation of
// ctx does.
func (im *Importer) ImportFiles(ctx context.Context, paths []string) []ImportResult {
	results := make([]ImportResult, 0, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		results = append(results, im.ImportFile(ctx, path))
	}
	return results
}

// ImportFile imports one file into the table named after it. A table that
// already exists is left untouched and the file is not read.
func (im *Importer) ImportFile(ctx context.Context, path string) ImportResult {
	start := im.opts.Clock.Now()
	table := TableName(path)
	log := logging.WithFields(ctx, im.log, "path", path, "table", table)

	result := ImportResult{Path: path, Table: table}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		result.Outcome = OutcomeMissing
		result.Err = fmt.Errorf("%w: %s", ErrFileNotFound, path)
		log.Warn("CSV file not found")
		return result
	}

	exists, err := im.store.TableExists(ctx, table)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("%w: check table %s: %w", ErrImportFailed, table, err)
		log.Error("table lookup failed", "error", err)
		return result
	}
	if exists {
		result.Outcome = OutcomeSkippedExisting
		if n, err := im.store.CountRows(ctx, table); err == nil {
			log.Info("table already exists, skipping", "rows", n)
		} else {
			log.Info("table already exists, skipping")
		}
		return result
	}

	result, err = im.CreateTableFromFile(ctx, path, table)
	result.Duration = im.opts.Clock.Since(start)

	switch {
	case errors.Is(err, ErrEmptyFile):
		log.Warn("CSV file is empty")
	case err != nil:
		log.Error("import failed", "error", err)
	default:
		log.Info("table imported",
			"delimiter", string(result.Sniff.Delimiter),
			"sniff", result.Sniff.Outcome,
			"columns", len(result.Columns),
			"rows", result.Inserted,
			"blank", result.Blank,
			"malformed", result.Malformed,
			"bytes", result.BytesRead,
			"duration_ms", result.Duration.Milliseconds(),
		)
	}
	return result
}

// CreateTableFromFile creates table from the header of the file at path and
// loads its data rows. The delimiter is sniffed from the leading sample.
//
// Blank rows are skipped and rows whose width differs from the header are
// discarded. Surviving rows are inserted in a single transaction; when none
// survive the table is left empty.
//
// The returned result always carries an outcome. The error is ErrEmptyFile
// when the file has no header row and wraps ErrImportFailed otherwise.
func (im *Importer) CreateTableFromFile(ctx context.Context, path, table string) (ImportResult, error) {
	result := ImportResult{Path: path, Table: table}

	src, err := openSource(path, im.opts.SampleSize)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("%w: %w", ErrImportFailed, err)
		return result, result.Err
	}
	defer src.Close()

	fail := func(outcome ImportOutcome, err error) (ImportResult, error) {
		result.Outcome = outcome
		result.Err = err
		result.BytesRead = src.BytesRead()
		return result, err
	}

	sample, err := src.Sample()
	if err != nil {
		return fail(OutcomeFailed, fmt.Errorf("%w: read sample: %w", ErrImportFailed, err))
	}
	result.Sniff = SniffDelimiter(sample, im.opts.Delimiters)
	if result.Sniff.Outcome == SniffFallback {
		logging.WithFields(ctx, im.log, "path", path).
			Debug("delimiter not detected, using default", "delimiter", string(result.Sniff.Delimiter))
	}

	r := csv.NewReader(src.Reader())
	r.Comma = result.Sniff.Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return fail(OutcomeEmpty, fmt.Errorf("%w: %s", ErrEmptyFile, path))
	}
	if err != nil {
		return fail(OutcomeFailed, fmt.Errorf("%w: read header: %w", ErrImportFailed, err))
	}

	result.Columns = CleanHeader(header)
	cols := store.TextColumns(result.Columns)

	if err := im.store.CreateTable(ctx, table, cols); err != nil {
		return fail(OutcomeFailed, fmt.Errorf("%w: %w", ErrImportFailed, err))
	}

	rows, err := im.readRows(ctx, r, len(cols), &result)
	if err != nil {
		return fail(OutcomeFailed, fmt.Errorf("%w: %w", ErrImportFailed, err))
	}

	if len(rows) > 0 {
		n, err := im.store.InsertRows(ctx, table, cols, rows)
		if err != nil {
			return fail(OutcomeFailed, fmt.Errorf("%w: %w", ErrImportFailed, err))
		}
		result.Inserted = n
	}

	result.Outcome = OutcomeImported
	result.BytesRead = src.BytesRead()
	return result, nil
}

// readRows classifies every remaining record and returns the ones to keep.
func (im *Importer) readRows(ctx context.Context, r *csv.Reader, width int, result *ImportResult) ([][]string, error) {
	var rows [][]string
	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			result.RowsRead++
			im.discard(ctx, result, perr.StartLine, perr.Err.Error(), nil)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		result.RowsRead++
		switch ClassifyRow(rec, width) {
		case RowKeep:
			rows = append(rows, rec)
		case RowBlank:
			result.Blank++
		case RowMalformed:
			line, _ := r.FieldPos(0)
			reason := fmt.Sprintf("expected %d fields, got %d", width, len(rec))
			im.discard(ctx, result, line, reason, rec)
		}
	}
}

func (im *Importer) discard(ctx context.Context, result *ImportResult, line int, reason string, data []string) {
	result.Malformed++
	if !im.opts.ReportMalformed {
		return
	}
	result.FailedRows = append(result.FailedRows, FailedRow{
		LineNumber: line,
		Reason:     reason,
		Data:       data,
	})
	logging.WithFields(ctx, im.log, "path", result.Path).
		Debug("malformed row discarded", "line", line, "reason", reason)
}
