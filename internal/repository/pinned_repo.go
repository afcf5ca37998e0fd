// internal/repository/pinned_repo.go
package repository

import (
	"context"

	"bithero/internal/domain"
)

// PinnedContactRepository defines the interface for pinned contact operations.
type PinnedContactRepository interface {
	// UpsertPin creates or refreshes a pin keyed by the (owner, contact) pair.
	// Re-pinning updates the denormalized username and PinnedAt.
	UpsertPin(ctx context.Context, q DBExecutor, pin *domain.PinnedContact) error
	// DeletePin removes a pin; deleting an absent pin is not an error.
	DeletePin(ctx context.Context, q DBExecutor, ownerAccountID, contactAccountID string) error
	// GetPinnedContacts retrieves an owner's pins ordered by PinnedAt descending,
	// bounded by limit.
	GetPinnedContacts(ctx context.Context, q DBExecutor, ownerAccountID string, limit int) ([]domain.PinnedContact, error)
	// DeletePinsByOwner removes all pins owned by an account (account deletion).
	DeletePinsByOwner(ctx context.Context, q DBExecutor, ownerAccountID string) error
}
