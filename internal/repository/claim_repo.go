// internal/repository/claim_repo.go
package repository

import (
	"context"

	"bithero/internal/domain"
)

// ClaimRepository defines the interface for username claim operations.
// The claim table is the sole arbiter of the username uniqueness invariant.
type ClaimRepository interface {
	// GetClaim retrieves the claim for a canonical username key.
	// Returns util.ErrNotFound when no claim exists.
	GetClaim(ctx context.Context, q DBExecutor, usernameKey string) (*domain.UsernameClaim, error)
	// GetClaimForUpdate retrieves the claim and locks the row for the duration
	// of the surrounding transaction. Returns util.ErrNotFound when absent.
	GetClaimForUpdate(ctx context.Context, q DBExecutor, usernameKey string) (*domain.UsernameClaim, error)
	// UpsertClaim writes the claim, but only succeeds when the key is unclaimed
	// or already owned by claim.AccountID. A conflicting owner yields
	// util.ErrUsernameTaken with no row written.
	UpsertClaim(ctx context.Context, q DBExecutor, claim *domain.UsernameClaim) error
	// DeleteClaimIfOwnedBy deletes the claim only when it is currently owned by
	// accountID. A stale or reassigned claim is left untouched; not an error.
	DeleteClaimIfOwnedBy(ctx context.Context, q DBExecutor, usernameKey, accountID string) error
}
