// internal/repository/postgres/pinned_pg.go
package postgres

import (
	"context"
	"fmt"

	"bithero/internal/domain"
	"bithero/internal/repository"

	"github.com/jmoiron/sqlx"
)

// PinnedContactRepository implements repository.PinnedContactRepository for
// PostgreSQL. Pins are keyed by the (owner, contact) pair.
type PinnedContactRepository struct{}

// NewPinnedContactRepository creates a new PinnedContactRepository.
func NewPinnedContactRepository(db *sqlx.DB) repository.PinnedContactRepository {
	return &PinnedContactRepository{}
}

// UpsertPin creates or refreshes a pin. Re-pinning the same pair refreshes
// the denormalized username and pinned_at rather than creating a duplicate.
func (r *PinnedContactRepository) UpsertPin(ctx context.Context, q repository.DBExecutor, pin *domain.PinnedContact) error {
	query := `INSERT INTO pinned_contacts (owner_account_id, contact_account_id, contact_username, pinned_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (owner_account_id, contact_account_id) DO UPDATE
              SET contact_username = EXCLUDED.contact_username,
                  pinned_at = EXCLUDED.pinned_at`
	if _, err := q.ExecContext(ctx, query, pin.OwnerAccountID, pin.ContactAccountID, pin.ContactUsername, pin.PinnedAt); err != nil {
		return fmt.Errorf("failed to upsert pin %s/%s: %w", pin.OwnerAccountID, pin.ContactAccountID, err)
	}
	return nil
}

// DeletePin removes a pin; absent pins are ignored.
func (r *PinnedContactRepository) DeletePin(ctx context.Context, q repository.DBExecutor, ownerAccountID, contactAccountID string) error {
	query := `DELETE FROM pinned_contacts WHERE owner_account_id = $1 AND contact_account_id = $2`
	if _, err := q.ExecContext(ctx, query, ownerAccountID, contactAccountID); err != nil {
		return fmt.Errorf("failed to delete pin %s/%s: %w", ownerAccountID, contactAccountID, err)
	}
	return nil
}

// GetPinnedContacts retrieves an owner's pins, most recently pinned first.
func (r *PinnedContactRepository) GetPinnedContacts(ctx context.Context, q repository.DBExecutor, ownerAccountID string, limit int) ([]domain.PinnedContact, error) {
	pins := []domain.PinnedContact{}
	query := `SELECT owner_account_id, contact_account_id, contact_username, pinned_at
              FROM pinned_contacts
              WHERE owner_account_id = $1
              ORDER BY pinned_at DESC
              LIMIT $2`
	if err := q.SelectContext(ctx, &pins, query, ownerAccountID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch pinned contacts for %s: %w", ownerAccountID, err)
	}
	return pins, nil
}

// DeletePinsByOwner removes all of an account's own pins. Used when the
// account is deleted; pins held by other accounts pointing at it remain.
func (r *PinnedContactRepository) DeletePinsByOwner(ctx context.Context, q repository.DBExecutor, ownerAccountID string) error {
	query := `DELETE FROM pinned_contacts WHERE owner_account_id = $1`
	if _, err := q.ExecContext(ctx, query, ownerAccountID); err != nil {
		return fmt.Errorf("failed to delete pins for owner %s: %w", ownerAccountID, err)
	}
	return nil
}
