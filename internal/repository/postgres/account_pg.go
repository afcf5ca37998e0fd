// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bithero/internal/domain"
	"bithero/internal/repository"
	"bithero/internal/util"

	"github.com/jmoiron/sqlx"
)

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct {
	// Methods receive a DBExecutor directly so they run on either a direct
	// connection or a transaction.
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &AccountRepository{}
}

// GetAccount retrieves an account by its ID using the provided DBExecutor.
func (r *AccountRepository) GetAccount(ctx context.Context, q repository.DBExecutor, accountID string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, username, username_key, wallet_address, display_name, avatar_url, created_at, updated_at
              FROM accounts WHERE id = $1`
	err := q.GetContext(ctx, &account, query, accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return &account, nil
}

// UpsertUsername writes the username fields onto the account row, creating it
// when absent. created_at is only set on first insert.
func (r *AccountRepository) UpsertUsername(ctx context.Context, q repository.DBExecutor, accountID, username, usernameKey string) error {
	now := time.Now().UTC()
	query := `INSERT INTO accounts (id, username, username_key, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $4)
              ON CONFLICT (id) DO UPDATE
              SET username = EXCLUDED.username,
                  username_key = EXCLUDED.username_key,
                  updated_at = EXCLUDED.updated_at`
	if _, err := q.ExecContext(ctx, query, accountID, username, usernameKey, now); err != nil {
		return fmt.Errorf("failed to upsert username for account %s: %w", accountID, err)
	}
	return nil
}

// UpsertProfile applies a partial profile update. COALESCE keeps existing
// values for fields the caller did not supply. Username changes are not
// handled here; they go through the claim transaction.
func (r *AccountRepository) UpsertProfile(ctx context.Context, q repository.DBExecutor, accountID string, update domain.ProfileUpdate) error {
	now := time.Now().UTC()
	query := `INSERT INTO accounts (id, username, username_key, wallet_address, display_name, avatar_url, created_at, updated_at)
              VALUES ($1, '', '', $2, $3, $4, $5, $5)
              ON CONFLICT (id) DO UPDATE
              SET wallet_address = COALESCE(EXCLUDED.wallet_address, accounts.wallet_address),
                  display_name   = COALESCE(EXCLUDED.display_name, accounts.display_name),
                  avatar_url     = COALESCE(EXCLUDED.avatar_url, accounts.avatar_url),
                  updated_at     = EXCLUDED.updated_at`
	if _, err := q.ExecContext(ctx, query, accountID, update.WalletAddress, update.DisplayName, update.AvatarURL, now); err != nil {
		return fmt.Errorf("failed to upsert profile for account %s: %w", accountID, err)
	}
	return nil
}

// DeleteAccount removes the account row using the provided DBExecutor.
func (r *AccountRepository) DeleteAccount(ctx context.Context, q repository.DBExecutor, accountID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deleting account %s: %w", accountID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
