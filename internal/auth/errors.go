package auth

import (
	"fmt"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// MaxCredentialLength is the exclusive upper bound on username and password
// length, in characters.
const MaxCredentialLength = 128

// Validation errors
var (
	ErrMissingCredentials = fmt.Errorf("%w: missing credentials", types.ErrValidation)
	ErrCredentialTooLong  = fmt.Errorf("%w: credentials must be shorter than %d characters", types.ErrValidation, MaxCredentialLength)
	ErrPasswordMismatch   = fmt.Errorf("%w: passwords do not match", types.ErrValidation)
)

// Account errors
var (
	ErrUsernameTaken      = fmt.Errorf("%w: username already exists", types.ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", types.ErrValidation)
)
