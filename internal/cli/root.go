// Package cli implements the worlddb command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/worlddb/internal/config"
	"github.com/JonMunkholm/worlddb/internal/core"
	"github.com/JonMunkholm/worlddb/internal/logging"
	"github.com/JonMunkholm/worlddb/internal/store"
)

const longHelp = `worlddb imports CSV files into a relational store, one table per file,
then answers a fixed question against the tables "country" and
"countrylanguage".

Each file becomes a table named after the file without its extension. Tables
that already exist are never touched again, so re-running with the same files
is safe. With no files, the existing store is queried as is.

The store is the SQLite file db.sqlite in the working directory unless
--db or --database-url says otherwise.

Exit Codes:
  0  - Success (missing, empty or skipped files included)
  1  - General error
  2  - CLI usage error (invalid flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Store unavailable (no files given and no store, or unreachable)
  13 - Query failed (tables or columns missing)`

// NewRootCommand builds the worlddb command.
func NewRootCommand() *cobra.Command {
	flags := &flagValues{}

	cmd := &cobra.Command{
		Use:           "worlddb [flags] [file ...]",
		Short:         "Import CSV files into a relational store and query them",
		Long:          longHelp,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, flags, args)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})
	flags.register(cmd.Flags())

	return cmd
}

// Execute runs worlddb with args, writing query output to stdout and logs and
// diagnostics to stderr. The returned error maps to an exit code through
// ExitCodeForError.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(stderr, err)
	}
	return err
}

func reportError(w io.Writer, err error) {
	if errors.Is(err, ErrUsage) {
		fmt.Fprintf(w, "Error: %v\nRun 'worlddb --help' for usage.\n", err)
		return
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "Interrupted.")
		return
	}
	fmt.Fprint(w, core.FormatDiagnostic(err))
}

func loadConfig(cmd *cobra.Command, flags *flagValues) (*config.Config, error) {
	if flags.envFile != "" {
		if err := godotenv.Load(flags.envFile); err != nil {
			return nil, fmt.Errorf("%w: load env file %s: %w", config.ErrInvalid, flags.envFile, err)
		}
	}

	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	flags.apply(cfg, cmd.Flags())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cobra.Command, flags *flagValues, files []string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	ctx = logging.ContextWithRunID(ctx, logging.NewRunID())
	base := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	log := logging.FromContext(ctx, base)
	log.Debug("configuration loaded", "config", cfg.String())

	// Without files there is nothing to import; an absent store must not be
	// created just to fail the query.
	if len(files) == 0 {
		exists, err := store.Exists(cfg.Store)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", core.ErrNoStore, store.Describe(cfg.Store))
		}
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()
	log.Debug("store opened", "store", store.Describe(cfg.Store))

	if len(files) > 0 {
		importer := core.NewImporter(st, base, core.OptionsFromConfig(cfg.Import))
		results := importer.ImportFiles(ctx, files)
		logSummary(log, core.Summarize(results))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	query := core.SpanishSpeakingCountries
	names, err := query.Run(ctx, st)
	if err != nil {
		return err
	}
	return query.WriteAnswer(cmd.OutOrStdout(), names)
}

func logSummary(log *slog.Logger, s core.Summary) {
	log.Info("import finished",
		"imported", s.Imported,
		"skipped", s.Skipped,
		"missing", s.Missing,
		"empty", s.Empty,
		"failed", s.Failed,
		"rows", s.Rows,
	)
}
