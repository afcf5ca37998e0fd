// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
//
// Backing-store transient failures are deliberately not represented here:
// they wrap and propagate to the caller untouched, so retry policy stays
// outside the registry and ledger. Hidden retries around the claim
// transaction could double-submit.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input provided")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidAmount     = errors.New("invalid transfer amount")
	ErrRecipientNotFound = errors.New("recipient not found")
)

// IsError reports whether err matches the target sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
