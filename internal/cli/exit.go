package cli

import (
	"errors"
	"strings"

	"github.com/JonMunkholm/worlddb/internal/config"
	"github.com/JonMunkholm/worlddb/internal/core"
	"github.com/JonMunkholm/worlddb/internal/store"
)

// Exit codes returned by the worlddb binary.
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitUsageError       = 2
	ExitPanic            = 3
	ExitConfigError      = 10
	ExitStoreUnavailable = 11
	ExitQueryFailed      = 13
)

// ErrUsage indicates invalid command-line flags.
var ErrUsage = errors.New("usage error")

// ExitCodeForError returns the exit code for an error returned by Execute.
// Per-file import problems never reach here; they are reported and the run
// continues.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, config.ErrInvalid):
		return ExitConfigError
	case errors.Is(err, core.ErrNoStore), errors.Is(err, store.ErrUnavailable):
		return ExitStoreUnavailable
	case errors.Is(err, core.ErrQueryFailed):
		return ExitQueryFailed
	}

	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitStoreUnavailable
	}

	return ExitGeneralError
}
