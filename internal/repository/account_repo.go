// internal/repository/account_repo.go
package repository

import (
	"context"

	"bithero/internal/domain"
)

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	// GetAccount retrieves an account by its ID using the provided DBExecutor.
	GetAccount(ctx context.Context, q DBExecutor, accountID string) (*domain.Account, error)
	// UpsertUsername writes the username/usernameKey pair onto the account,
	// creating the row if it does not exist. CreatedAt is preserved on update.
	UpsertUsername(ctx context.Context, q DBExecutor, accountID, username, usernameKey string) error
	// UpsertProfile applies a partial profile update. Nil fields in the update
	// must not overwrite existing values.
	UpsertProfile(ctx context.Context, q DBExecutor, accountID string, update domain.ProfileUpdate) error
	// DeleteAccount removes the account row.
	DeleteAccount(ctx context.Context, q DBExecutor, accountID string) error
}
