package types

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the store, the remote backends
// and the auth service wraps exactly one of these; callers branch with
// errors.Is.
var (
	// ErrValidation marks bad or duplicate input. The caller should re-prompt.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a referenced board, list or card that does not exist.
	// The caller should refresh its view.
	ErrNotFound = errors.New("not found")

	// ErrIO marks a local file that cannot be read or written. The operation
	// is aborted and in-memory state is left as it was.
	ErrIO = errors.New("local storage error")

	// ErrRemote marks a network or remote document store failure. Local state
	// remains authoritative and unchanged.
	ErrRemote = errors.New("remote storage error")
)

// Validation errors.
var (
	ErrEmptyTitle     = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrInvalidText    = fmt.Errorf("%w: text must be valid UTF-8", ErrValidation)
	ErrDuplicateTitle = fmt.Errorf("%w: title already exists", ErrValidation)
	ErrInvalidDate    = fmt.Errorf("%w: date must use the dd-mm-yyyy layout", ErrValidation)
	ErrInvalidTime    = fmt.Errorf("%w: time must use the HH:MM layout", ErrValidation)
	ErrSameList       = fmt.Errorf("%w: reordering cards within a list is not supported", ErrValidation)
	ErrInvalidScope   = fmt.Errorf("%w: unknown card scope", ErrValidation)
	ErrNotLoggedIn    = fmt.Errorf("%w: not logged in", ErrValidation)
)

// Lookup errors.
var (
	ErrBoardNotFound = fmt.Errorf("board %w", ErrNotFound)
	ErrListNotFound  = fmt.Errorf("list %w", ErrNotFound)
	ErrCardNotFound  = fmt.Errorf("card %w", ErrNotFound)
)

// Local persistence errors.
var (
	ErrPathNotSet = fmt.Errorf("%w: store path is not set", ErrIO)
)

// Remote persistence errors.
var (
	// ErrDocumentNotFound is returned by Remote.Get when no document exists
	// under the requested key. It does not wrap ErrRemote; callers decide
	// whether absence is a failure.
	ErrDocumentNotFound = errors.New("document not found")

	ErrRemoteDisabled = fmt.Errorf("%w: no remote backend configured", ErrRemote)
)
