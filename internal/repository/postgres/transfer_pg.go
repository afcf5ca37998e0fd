// internal/repository/postgres/transfer_pg.go
package postgres

import (
	"context"
	"fmt"

	"bithero/internal/domain"
	"bithero/internal/repository"

	"github.com/jmoiron/sqlx"
)

// TransferRepository implements repository.TransferRepository for PostgreSQL.
type TransferRepository struct{}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db *sqlx.DB) repository.TransferRepository {
	return &TransferRepository{}
}

// CreateTransfer appends a new transfer record using the provided DBExecutor.
func (r *TransferRepository) CreateTransfer(ctx context.Context, q repository.DBExecutor, record *domain.TransferRecord) error {
	query := `INSERT INTO transfers (id, from_account_id, to_account_id, to_username, to_address, amount_minor_units, note, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := q.ExecContext(ctx, query,
		record.ID,
		record.FromAccountID,
		record.ToAccountID,
		record.ToUsername,
		record.ToAddress,
		record.AmountMinorUnits,
		record.Note,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer record: %w", err)
	}
	return nil
}

// GetRecentTransfers retrieves the most recent transfers sent by an account.
// Ties on created_at are broken by id so the ordering is stable.
func (r *TransferRepository) GetRecentTransfers(ctx context.Context, q repository.DBExecutor, accountID string, limit int) ([]domain.TransferRecord, error) {
	transfers := []domain.TransferRecord{}
	query := `SELECT id, from_account_id, to_account_id, to_username, to_address, amount_minor_units, note, created_at
              FROM transfers
              WHERE from_account_id = $1
              ORDER BY created_at DESC, id DESC
              LIMIT $2`
	if err := q.SelectContext(ctx, &transfers, query, accountID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch transfers for account %s: %w", accountID, err)
	}
	return transfers, nil
}
