package cli

import (
	"github.com/spf13/pflag"

	"github.com/JonMunkholm/worlddb/internal/config"
)

// flagValues holds command-line overrides. A flag replaces the configured
// value only when it was set explicitly.
type flagValues struct {
	envFile         string
	dbPath          string
	databaseURL     string
	sniffSample     int
	delimiters      string
	reportMalformed bool
	logLevel        string
	logFormat       string
	verbose         bool
}

func (f *flagValues) register(fs *pflag.FlagSet) {
	defaults := config.Defaults()

	fs.StringVar(&f.envFile, "env-file", "", "Load environment variables from a dotenv file first")
	fs.StringVar(&f.dbPath, "db", defaults.Store.Path, "SQLite store file (or set WORLDDB_PATH)")
	fs.StringVar(&f.databaseURL, "database-url", "", "PostgreSQL connection URL, replaces the SQLite file (or set WORLDDB_DATABASE_URL)")
	fs.IntVar(&f.sniffSample, "sniff-sample", defaults.Import.SampleSize, "Bytes inspected for delimiter detection (or set WORLDDB_SNIFF_SAMPLE)")
	fs.StringVar(&f.delimiters, "delimiters", defaults.Import.Delimiters, "Candidate delimiters in preference order (or set WORLDDB_DELIMITERS)")
	fs.BoolVar(&f.reportMalformed, "report-malformed", false, "Log every discarded row at debug level (or set WORLDDB_REPORT_MALFORMED)")
	fs.StringVar(&f.logLevel, "log-level", defaults.Logging.Level, "Log level: debug, info, warn, error (or set LOG_LEVEL)")
	fs.StringVar(&f.logFormat, "log-format", defaults.Logging.Format, "Log format: text, json (or set LOG_FORMAT)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
}

// apply copies explicitly set flags onto cfg.
func (f *flagValues) apply(cfg *config.Config, fs *pflag.FlagSet) {
	if fs.Changed("db") {
		cfg.Store.Path = f.dbPath
	}
	if fs.Changed("database-url") {
		cfg.Store.URL = f.databaseURL
	}
	if fs.Changed("sniff-sample") {
		cfg.Import.SampleSize = f.sniffSample
	}
	if fs.Changed("delimiters") {
		cfg.Import.Delimiters = f.delimiters
	}
	if fs.Changed("report-malformed") {
		cfg.Import.ReportMalformed = f.reportMalformed
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}
}
