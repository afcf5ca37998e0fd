// internal/domain/username.go
package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// UsernameMinLength and UsernameMaxLength bound the canonical form.
	UsernameMinLength = 2
	UsernameMaxLength = 20
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// reservedUsernames can never be claimed, regardless of availability.
var reservedUsernames = map[string]struct{}{
	"admin": {}, "support": {}, "help": {}, "api": {}, "www": {},
	"mail": {}, "email": {}, "root": {}, "user": {}, "test": {},
}

// Canonicalize returns the canonical form of a username: trimmed of
// surrounding whitespace, stripped of any leading '@' characters, and
// lower-cased. It is total and idempotent, and is the only form used for
// storage keys and uniqueness comparisons.
func Canonicalize(username string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(username), "@"))
}

// DisplayForm trims and strips leading '@'s but preserves case. This is the
// form persisted on the account and claim for display purposes.
func DisplayForm(username string) string {
	return strings.TrimLeft(strings.TrimSpace(username), "@")
}

// ValidateUsername checks the canonical form of a username against the
// charset, length, and reserved-name rules. It returns nil when the name is
// claimable, or a descriptive error otherwise.
func ValidateUsername(username string) error {
	key := Canonicalize(username)
	if key == "" {
		return fmt.Errorf("username is required")
	}
	if len(key) < UsernameMinLength {
		return fmt.Errorf("username must be at least %d characters", UsernameMinLength)
	}
	if len(key) > UsernameMaxLength {
		return fmt.Errorf("username must be %d characters or less", UsernameMaxLength)
	}
	if !usernamePattern.MatchString(key) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	if _, reserved := reservedUsernames[key]; reserved {
		return fmt.Errorf("username %q is reserved", key)
	}
	return nil
}
