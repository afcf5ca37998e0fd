// internal/repository/transfer_repo.go
package repository

import (
	"context"

	"bithero/internal/domain"
)

// TransferRepository defines the interface for the transfer intent log.
// Records are append-only; there is no update or delete path.
type TransferRepository interface {
	// CreateTransfer appends a new transfer record using the provided DBExecutor.
	CreateTransfer(ctx context.Context, q DBExecutor, record *domain.TransferRecord) error
	// GetRecentTransfers retrieves the most recent transfers sent by an account,
	// ordered by creation time descending, bounded by limit.
	GetRecentTransfers(ctx context.Context, q DBExecutor, accountID string, limit int) ([]domain.TransferRecord, error)
}
