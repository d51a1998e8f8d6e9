package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/JonMunkholm/worlddb/internal/config"
)

// Exists reports whether the configured store is already present. A
// PostgreSQL database is remote and counts as present; reachability is checked
// by Open.
func Exists(cfg config.StoreConfig) (bool, error) {
	if cfg.UsesPostgres() {
		return true, nil
	}
	info, err := os.Stat(cfg.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat store %s: %w", cfg.Path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%w: %s is a directory", ErrUnavailable, cfg.Path)
	}
	return true, nil
}

// Open opens the configured store. The SQLite file is created if absent.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	if cfg.UsesPostgres() {
		return OpenPostgres(ctx, cfg.URL, cfg.ConnectTimeout)
	}
	return OpenSQLite(ctx, cfg.Path)
}

// Describe returns a log-safe description of the configured store.
func Describe(cfg config.StoreConfig) string {
	if cfg.UsesPostgres() {
		return "postgres"
	}
	return "sqlite:" + cfg.Path
}
