// internal/repository/postgres/claim_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bithero/internal/domain"
	"bithero/internal/repository"
	"bithero/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ClaimRepository implements repository.ClaimRepository for PostgreSQL.
// The username_claims primary key on username_key is what ultimately
// enforces the one-owner-per-username invariant.
type ClaimRepository struct{}

// NewClaimRepository creates a new ClaimRepository.
func NewClaimRepository(db *sqlx.DB) repository.ClaimRepository {
	return &ClaimRepository{}
}

const claimColumns = `username_key, account_id, username, claimed_at`

// GetClaim retrieves the claim for a canonical username key.
func (r *ClaimRepository) GetClaim(ctx context.Context, q repository.DBExecutor, usernameKey string) (*domain.UsernameClaim, error) {
	var claim domain.UsernameClaim
	query := `SELECT ` + claimColumns + ` FROM username_claims WHERE username_key = $1`
	err := q.GetContext(ctx, &claim, query, usernameKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get claim for %q: %w", usernameKey, err)
	}
	return &claim, nil
}

// GetClaimForUpdate retrieves the claim and locks its row until the
// surrounding transaction ends, serializing concurrent claimants of the
// same key.
func (r *ClaimRepository) GetClaimForUpdate(ctx context.Context, q repository.DBExecutor, usernameKey string) (*domain.UsernameClaim, error) {
	var claim domain.UsernameClaim
	query := `SELECT ` + claimColumns + ` FROM username_claims WHERE username_key = $1 FOR UPDATE`
	err := q.GetContext(ctx, &claim, query, usernameKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock claim for %q: %w", usernameKey, err)
	}
	return &claim, nil
}

// UpsertClaim writes the claim row. The conditional ON CONFLICT update only
// fires when the existing row already belongs to the same account, so a
// concurrent first-time claimant that lost the insert race affects zero rows
// and surfaces ErrUsernameTaken instead of silently stealing the key.
func (r *ClaimRepository) UpsertClaim(ctx context.Context, q repository.DBExecutor, claim *domain.UsernameClaim) error {
	query := `INSERT INTO username_claims (username_key, account_id, username, claimed_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (username_key) DO UPDATE
              SET account_id = EXCLUDED.account_id,
                  username   = EXCLUDED.username,
                  claimed_at = EXCLUDED.claimed_at
              WHERE username_claims.account_id = EXCLUDED.account_id`
	result, err := q.ExecContext(ctx, query, claim.UsernameKey, claim.AccountID, claim.Username, claim.ClaimedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return util.ErrUsernameTaken
		}
		return fmt.Errorf("failed to upsert claim for %q: %w", claim.UsernameKey, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected upserting claim for %q: %w", claim.UsernameKey, err)
	}
	if rowsAffected == 0 {
		return util.ErrUsernameTaken
	}
	return nil
}

// DeleteClaimIfOwnedBy deletes the claim only when accountID still owns it.
// Zero rows affected means the claim was stale or already reassigned, which
// is not an error.
func (r *ClaimRepository) DeleteClaimIfOwnedBy(ctx context.Context, q repository.DBExecutor, usernameKey, accountID string) error {
	query := `DELETE FROM username_claims WHERE username_key = $1 AND account_id = $2`
	if _, err := q.ExecContext(ctx, query, usernameKey, accountID); err != nil {
		return fmt.Errorf("failed to delete claim for %q: %w", usernameKey, err)
	}
	return nil
}
