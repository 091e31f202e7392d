package cli

import (
	"errors"
	"strings"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// Exit codes.
const (
	exitSuccess    = 0
	exitError      = 1
	exitUsage      = 2
	exitNotFound   = 3
	exitIO         = 4
	exitValidation = 5
	exitRemote     = 6
)

// usageError marks bad flags or arguments.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

// exitCode maps an error to the process exit code. Remote and I/O failures
// are checked first because their messages may wrap a validation cause.
func exitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &usage), isCobraUsage(err.Error()):
		return exitUsage
	case errors.Is(err, types.ErrRemote):
		return exitRemote
	case errors.Is(err, types.ErrIO):
		return exitIO
	case errors.Is(err, types.ErrNotFound):
		return exitNotFound
	case errors.Is(err, types.ErrValidation):
		return exitValidation
	}
	return exitError
}

// isCobraUsage recognizes errors cobra raises before a command runs.
func isCobraUsage(msg string) bool {
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "required flag")
}
