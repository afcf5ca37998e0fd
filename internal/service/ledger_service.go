// internal/service/ledger_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"bithero/internal/domain"
	"bithero/internal/repository"
	"bithero/internal/util"
)

const (
	// DefaultRecentTransfersLimit bounds GetRecentTransfers when the caller
	// passes a non-positive max.
	DefaultRecentTransfersLimit = 10
	// DefaultPinnedContactsLimit bounds GetPinnedContacts likewise.
	DefaultPinnedContactsLimit = 20
)

// LedgerService records transfer intents and serves history and pin queries.
// It never executes on-chain transfers; submission is delegated to the
// wallet bridge by the caller.
type LedgerService interface {
	// LogTransfer re-resolves toUsername through the registry at call time
	// and appends an immutable record. Fails with util.ErrRecipientNotFound
	// when resolution misses and util.ErrInvalidAmount for non-positive
	// amounts. Self-transfers are not rejected at this layer.
	LogTransfer(ctx context.Context, fromAccountID, toUsername string, amountMinorUnits int64, note *string) (*domain.TransferRecord, error)
	// GetRecentTransfers returns the account's sent transfers, newest first.
	GetRecentTransfers(ctx context.Context, accountID string, max int) ([]domain.TransferRecord, error)
	// PinContact is an idempotent upsert keyed by the (owner, contact) pair.
	PinContact(ctx context.Context, ownerAccountID, contactAccountID, contactUsername string) error
	// UnpinContact is an idempotent delete.
	UnpinContact(ctx context.Context, ownerAccountID, contactAccountID string) error
	// GetPinnedContacts returns the owner's pins, most recently pinned first.
	GetPinnedContacts(ctx context.Context, ownerAccountID string, max int) ([]domain.PinnedContact, error)
}

// ledgerService implements the LedgerService interface. Every operation is
// a single statement against the store, so no transaction plumbing is
// needed here; the claim path in the registry is the only transactional one.
type ledgerService struct {
	dbExecutor   repository.DBExecutor
	registry     RegistryService
	transferRepo repository.TransferRepository
	pinnedRepo   repository.PinnedContactRepository
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbExecutor repository.DBExecutor,
	registry RegistryService,
	transferRepo repository.TransferRepository,
	pinnedRepo repository.PinnedContactRepository,
) LedgerService {
	return &ledgerService{
		dbExecutor:   dbExecutor,
		registry:     registry,
		transferRepo: transferRepo,
		pinnedRepo:   pinnedRepo,
	}
}

func (s *ledgerService) LogTransfer(ctx context.Context, fromAccountID, toUsername string, amountMinorUnits int64, note *string) (*domain.TransferRecord, error) {
	if amountMinorUnits <= 0 {
		return nil, util.ErrInvalidAmount
	}

	// Resolve immediately before the append so the record snapshots the
	// recipient as currently registered, never a caller-supplied pair. A
	// rename landing between resolve and append is an accepted limitation.
	recipient, err := s.registry.ResolveByUsername(ctx, toUsername)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrRecipientNotFound
		}
		return nil, fmt.Errorf("log transfer: failed to resolve recipient %q: %w", toUsername, err)
	}

	toAddress := ""
	if recipient.WalletAddress != nil {
		toAddress = *recipient.WalletAddress
	}

	record := domain.NewTransferRecord(fromAccountID, recipient.ID, recipient.Username, toAddress, amountMinorUnits, note)
	if err := s.transferRepo.CreateTransfer(ctx, s.dbExecutor, record); err != nil {
		return nil, fmt.Errorf("log transfer: failed to append record: %w", err)
	}
	return record, nil
}

func (s *ledgerService) GetRecentTransfers(ctx context.Context, accountID string, max int) ([]domain.TransferRecord, error) {
	if max <= 0 {
		max = DefaultRecentTransfersLimit
	}
	transfers, err := s.transferRepo.GetRecentTransfers(ctx, s.dbExecutor, accountID, max)
	if err != nil {
		return nil, fmt.Errorf("recent transfers: failed to fetch for %s: %w", accountID, err)
	}
	return transfers, nil
}

func (s *ledgerService) PinContact(ctx context.Context, ownerAccountID, contactAccountID, contactUsername string) error {
	pin := domain.NewPinnedContact(ownerAccountID, contactAccountID, contactUsername)
	if err := s.pinnedRepo.UpsertPin(ctx, s.dbExecutor, pin); err != nil {
		return fmt.Errorf("pin contact: failed to upsert %s/%s: %w", ownerAccountID, contactAccountID, err)
	}
	return nil
}

func (s *ledgerService) UnpinContact(ctx context.Context, ownerAccountID, contactAccountID string) error {
	if err := s.pinnedRepo.DeletePin(ctx, s.dbExecutor, ownerAccountID, contactAccountID); err != nil {
		return fmt.Errorf("unpin contact: failed to delete %s/%s: %w", ownerAccountID, contactAccountID, err)
	}
	return nil
}

func (s *ledgerService) GetPinnedContacts(ctx context.Context, ownerAccountID string, max int) ([]domain.PinnedContact, error) {
	if max <= 0 {
		max = DefaultPinnedContactsLimit
	}
	pins, err := s.pinnedRepo.GetPinnedContacts(ctx, s.dbExecutor, ownerAccountID, max)
	if err != nil {
		return nil, fmt.Errorf("pinned contacts: failed to fetch for %s: %w", ownerAccountID, err)
	}
	return pins, nil
}
