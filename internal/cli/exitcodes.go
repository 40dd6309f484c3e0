package cli

import (
	"errors"
	"os"

	"github.com/yaklabco/retab/internal/configloader"
	"github.com/yaklabco/retab/pkg/fsutil"
	"github.com/yaklabco/retab/pkg/reindent"
	"github.com/yaklabco/retab/pkg/runner"
)

// Exit codes for retab.
const (
	// ExitSuccess indicates successful execution with nothing to change.
	ExitSuccess = 0

	// ExitChangesNeeded indicates a check-mode run found files whose
	// indentation differs from the target.
	ExitChangesNeeded = 1

	// ExitStrictWarnings indicates skipped or undetected files under --strict.
	ExitStrictWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors that carry an exit code out of a command's RunE.
var (
	// ErrChangesNeeded signals that files need changes in check mode.
	ErrChangesNeeded = errors.New("changes needed")

	// ErrStrictWarnings signals skipped files under --strict.
	ErrStrictWarnings = errors.New("files skipped in strict mode")

	// ErrProcessingFailed signals that some files could not be processed.
	ErrProcessingFailed = errors.New("some files could not be processed")

	// ErrConfigLoad wraps configuration loading failures.
	ErrConfigLoad = errors.New("failed to load configuration")

	// ErrUsage wraps invalid flag values and similar caller mistakes.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code for a finished run.
// Changed files only fail the run when they were not rewritten, so
// --write exits zero after fixing everything it found.
func ExitCodeFromResult(result *runner.Result, strict, write bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitIOError
	}

	if result.Stats.FilesChanged > 0 && !write {
		return ExitChangesNeeded
	}

	if strict && result.Stats.FilesSkipped > 0 {
		return ExitStrictWarnings
	}

	return ExitSuccess
}

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *configloader.ValidationError

	switch {
	case errors.Is(err, ErrChangesNeeded):
		return ExitChangesNeeded
	case errors.Is(err, ErrStrictWarnings):
		return ExitStrictWarnings
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfigLoad), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, ErrProcessingFailed),
		errors.Is(err, reindent.ErrFileNotFound),
		errors.Is(err, reindent.ErrPermissionDenied),
		errors.Is(err, reindent.ErrWriteFailure),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
