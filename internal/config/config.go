// Package config provides centralized configuration management for worlddb.
// It loads configuration from environment variables with defaults that
// reproduce the tool's standard behavior, and validates all settings on
// startup to fail fast on misconfiguration. Command-line flags are applied on
// top of the loaded values by the cli package.
package config

import "time"

// DefaultStorePath is the well-known store file created in the working directory.
const DefaultStorePath = "db.sqlite"

// Config holds all application configuration.
type Config struct {
	Store   StoreConfig
	Import  ImportConfig
	Logging LoggingConfig
}

// StoreConfig selects and configures the relational store.
type StoreConfig struct {
	// Path is the SQLite store file (default: db.sqlite)
	Path string `env:"WORLDDB_PATH" default:"db.sqlite"`

	// URL is a PostgreSQL connection string. When set, it replaces the SQLite file.
	URL string `env:"WORLDDB_DATABASE_URL"`

	// ConnectTimeout bounds the initial PostgreSQL connection (default: 10s)
	ConnectTimeout time.Duration `env:"WORLDDB_CONNECT_TIMEOUT" default:"10s"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// SampleSize is the number of leading bytes used for delimiter sniffing (default: 4096)
	SampleSize int `env:"WORLDDB_SNIFF_SAMPLE" default:"4096"`

	// Delimiters lists the candidate delimiters in preference order (default: ",;")
	Delimiters string `env:"WORLDDB_DELIMITERS" default:",;"`

	// ReportMalformed logs each discarded row at debug level (default: false)
	ReportMalformed bool `env:"WORLDDB_REPORT_MALFORMED" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// UsesPostgres reports whether the store is a PostgreSQL database rather than
// the local SQLite file.
func (c StoreConfig) UsesPostgres() bool {
	return c.URL != ""
}

// DelimiterRunes returns the candidate delimiters as runes, in order.
func (c ImportConfig) DelimiterRunes() []rune {
	return []rune(c.Delimiters)
}
