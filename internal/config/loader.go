package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ErrInvalid indicates the configuration could not be loaded or is invalid.
var ErrInvalid = errors.New("invalid configuration")

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadEnv reads configuration from environment variables without validating
// it, so that command-line overrides can be applied first.
func LoadEnv() (*Config, error) {
	cfg := &Config{}
	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("%w: config load: %w", ErrInvalid, err)
	}
	return cfg, nil
}

// Defaults returns a configuration populated only from the default tags,
// ignoring the environment.
func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(reflect.ValueOf(cfg).Elem())
	return cfg
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// applyDefaults sets every tagged field to its default value.
// Default tags are fixed at compile time, so parse errors cannot occur here.
func applyDefaults(v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)
		if field.Type.Kind() == reflect.Struct {
			applyDefaults(fieldVal)
			continue
		}
		if def := field.Tag.Get("default"); def != "" {
			_ = setField(fieldVal, def)
		}
	}
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Store validation
	if c.Store.URL == "" && strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, "WORLDDB_PATH must not be empty when WORLDDB_DATABASE_URL is unset")
	}
	if c.Store.URL != "" && !strings.HasPrefix(c.Store.URL, "postgres://") && !strings.HasPrefix(c.Store.URL, "postgresql://") {
		errs = append(errs, "WORLDDB_DATABASE_URL must be a postgres:// or postgresql:// URL")
	}
	if c.Store.ConnectTimeout <= 0 {
		errs = append(errs, "WORLDDB_CONNECT_TIMEOUT must be positive")
	}

	// Import validation
	if c.Import.SampleSize <= 0 {
		errs = append(errs, "WORLDDB_SNIFF_SAMPLE must be positive")
	}
	if msg := validateDelimiters(c.Import.Delimiters); msg != "" {
		errs = append(errs, msg)
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: validation failed:\n  - %s", ErrInvalid, strings.Join(errs, "\n  - "))
	}

	return nil
}

// validateDelimiters mirrors the restrictions encoding/csv places on a Comma rune.
func validateDelimiters(delims string) string {
	if delims == "" {
		return "WORLDDB_DELIMITERS must list at least one delimiter"
	}
	seen := make(map[rune]bool)
	for _, r := range delims {
		if r == '"' || r == '\r' || r == '\n' || r == unicode.ReplacementChar || !unicode.IsPrint(r) && r != '\t' {
			return fmt.Sprintf("WORLDDB_DELIMITERS contains unusable delimiter %q", r)
		}
		if seen[r] {
			return fmt.Sprintf("WORLDDB_DELIMITERS lists %q more than once", r)
		}
		seen[r] = true
	}
	return ""
}

// String returns a safe string representation of the config for logging.
// Database URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	if c.Store.URL != "" {
		b.WriteString("Store: {URL: [MASKED]}, ")
	} else {
		b.WriteString(fmt.Sprintf("Store: {Path: %q}, ", c.Store.Path))
	}
	b.WriteString(fmt.Sprintf("Import: {SampleSize: %d, Delimiters: %q, ReportMalformed: %v}, ",
		c.Import.SampleSize, c.Import.Delimiters, c.Import.ReportMalformed))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
