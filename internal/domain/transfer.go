// internal/domain/transfer.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferRecord is an immutable append-only log entry for a transfer
// intent. Recipient username and address are snapshots taken at log time,
// not live references; they may go stale if the counterparty renames.
// On-chain settlement is delegated to the wallet bridge and is never
// reflected back into this record.
type TransferRecord struct {
	ID               uuid.UUID `db:"id" json:"id"`
	FromAccountID    string    `db:"from_account_id" json:"from_account_id"`
	ToAccountID      string    `db:"to_account_id" json:"to_account_id"`
	ToUsername       string    `db:"to_username" json:"to_username"`
	ToAddress        string    `db:"to_address" json:"to_address"` // Empty when the recipient has no linked wallet
	AmountMinorUnits int64     `db:"amount_minor_units" json:"amount_minor_units"`
	Note             *string   `db:"note" json:"note"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// NewTransferRecord creates a new TransferRecord instance with a fresh ID
// and the creation timestamp set.
func NewTransferRecord(fromAccountID, toAccountID, toUsername, toAddress string, amountMinorUnits int64, note *string) *TransferRecord {
	return &TransferRecord{
		ID:               uuid.New(),
		FromAccountID:    fromAccountID,
		ToAccountID:      toAccountID,
		ToUsername:       toUsername,
		ToAddress:        toAddress,
		AmountMinorUnits: amountMinorUnits,
		Note:             note,
		CreatedAt:        time.Now().UTC(),
	}
}

// PinnedContact is one account's shortcut to a prior transfer recipient,
// keyed by the (owner, contact) pair. The contact username is denormalized
// at pin time.
type PinnedContact struct {
	OwnerAccountID   string    `db:"owner_account_id" json:"owner_account_id"`
	ContactAccountID string    `db:"contact_account_id" json:"contact_account_id"`
	ContactUsername  string    `db:"contact_username" json:"contact_username"`
	PinnedAt         time.Time `db:"pinned_at" json:"pinned_at"`
}

// NewPinnedContact creates a new PinnedContact instance with PinnedAt set.
func NewPinnedContact(ownerAccountID, contactAccountID, contactUsername string) *PinnedContact {
	return &PinnedContact{
		OwnerAccountID:   ownerAccountID,
		ContactAccountID: contactAccountID,
		ContactUsername:  DisplayForm(contactUsername),
		PinnedAt:         time.Now().UTC(),
	}
}
