// internal/service/registry_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"bithero/internal/domain"
	"bithero/internal/repository"
	"bithero/internal/util"
	"bithero/pkg/db"
)

// RegistryService maintains the username-to-account bijection and serves
// profile lookups and updates. The claim path is the only operation that
// requires cross-call atomicity; it runs as a single database transaction.
type RegistryService interface {
	// IsUsernameAvailable reports whether the canonical form of username is
	// unclaimed, or claimed by currentAccountID itself (idempotent re-claim).
	IsUsernameAvailable(ctx context.Context, currentAccountID, username string) (bool, error)
	// ClaimUsername atomically reserves username for accountID.
	// Returns util.ErrUsernameTaken when another account owns the key, in
	// which case no state was changed.
	ClaimUsername(ctx context.Context, accountID, username string) error
	// ResolveByUsername resolves a username to its owning account via the
	// claim record. A dangling claim resolves to util.ErrNotFound.
	ResolveByUsername(ctx context.Context, username string) (*domain.Account, error)
	// GetAccount fetches an account by ID.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	// UpsertProfile applies a partial profile update and returns the updated
	// account. A supplied username is a full claim, never a raw field write.
	UpsertProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error)
	// ReleaseUsername frees the claim if accountID still owns it.
	ReleaseUsername(ctx context.Context, accountID, username string) error
	// DeleteAccount releases the username, removes the account row and its
	// own pinned contacts. Transfer records are retained for audit.
	DeleteAccount(ctx context.Context, accountID string) error
}

// registryService implements the RegistryService interface.
type registryService struct {
	dbBeginner  db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor  repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	accountRepo repository.AccountRepository
	claimRepo   repository.ClaimRepository
	pinnedRepo  repository.PinnedContactRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewRegistryService creates a new instance of RegistryService.
func NewRegistryService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	claimRepo repository.ClaimRepository,
	pinnedRepo repository.PinnedContactRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) RegistryService {
	return &registryService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		accountRepo: accountRepo,
		claimRepo:   claimRepo,
		pinnedRepo:  pinnedRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

func (s *registryService) IsUsernameAvailable(ctx context.Context, currentAccountID, username string) (bool, error) {
	key := domain.Canonicalize(username)
	claim, err := s.claimRepo.GetClaim(ctx, s.dbExecutor, key)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("availability check: failed to read claim for %q: %w", key, err)
	}
	return claim.AccountID == currentAccountID, nil
}

func (s *registryService) ClaimUsername(ctx context.Context, accountID, username string) error {
	if err := domain.ValidateUsername(username); err != nil {
		return fmt.Errorf("%w: %s", util.ErrInvalidUsername, err.Error())
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("claim username: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("claim username: transaction controller does not implement DBExecutor")
	}

	if err := s.claimUsernameTx(ctx, txExecutor, accountID, username); err != nil {
		return err
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("claim username: failed to commit transaction: %w", err)
	}
	return nil
}

// claimUsernameTx is the claim algorithm proper, run inside an open
// transaction: read (and lock) the claim row, abort on a conflicting owner
// with no writes, otherwise upsert the claim and the account's username
// fields. UpsertProfile reuses it for renames.
func (s *registryService) claimUsernameTx(ctx context.Context, q repository.DBExecutor, accountID, username string) error {
	key := domain.Canonicalize(username)

	existing, err := s.claimRepo.GetClaimForUpdate(ctx, q, key)
	if err != nil && !errors.Is(err, util.ErrNotFound) {
		return fmt.Errorf("claim username: failed to read claim for %q: %w", key, err)
	}
	if existing != nil && existing.AccountID != accountID {
		return util.ErrUsernameTaken
	}

	claim := domain.NewUsernameClaim(accountID, username)
	if err := s.claimRepo.UpsertClaim(ctx, q, claim); err != nil {
		if errors.Is(err, util.ErrUsernameTaken) {
			return util.ErrUsernameTaken
		}
		return fmt.Errorf("claim username: failed to write claim for %q: %w", key, err)
	}

	if err := s.accountRepo.UpsertUsername(ctx, q, accountID, claim.Username, key); err != nil {
		return fmt.Errorf("claim username: failed to update account %s: %w", accountID, err)
	}
	return nil
}

func (s *registryService) ResolveByUsername(ctx context.Context, username string) (*domain.Account, error) {
	key := domain.Canonicalize(username)

	claim, err := s.claimRepo.GetClaim(ctx, s.dbExecutor, key)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("resolve username: failed to read claim for %q: %w", key, err)
	}

	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, claim.AccountID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			// Dangling claim: the mapping exists but the account is gone.
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("resolve username: failed to get account %s: %w", claim.AccountID, err)
	}
	return account, nil
}

func (s *registryService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccount(ctx, s.dbExecutor, accountID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("get account: failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *registryService) UpsertProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error) {
	if update.IsEmpty() {
		return nil, util.ErrInvalidInput
	}
	if update.Username != nil {
		if err := domain.ValidateUsername(*update.Username); err != nil {
			return nil, fmt.Errorf("%w: %s", util.ErrInvalidUsername, err.Error())
		}
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("upsert profile: transaction controller does not implement DBExecutor")
	}

	// A username change always runs the claim algorithm; writing the field
	// directly would bypass the uniqueness invariant.
	if update.Username != nil {
		if err := s.claimUsernameTx(ctx, txExecutor, accountID, *update.Username); err != nil {
			return nil, err
		}
	}

	if update.DisplayName != nil || update.AvatarURL != nil || update.WalletAddress != nil {
		if err := s.accountRepo.UpsertProfile(ctx, txExecutor, accountID, update); err != nil {
			return nil, fmt.Errorf("upsert profile: failed to update account %s: %w", accountID, err)
		}
	}

	account, err := s.accountRepo.GetAccount(ctx, txExecutor, accountID)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: failed to re-fetch account %s: %w", accountID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("upsert profile: failed to commit transaction: %w", err)
	}
	return account, nil
}

func (s *registryService) ReleaseUsername(ctx context.Context, accountID, username string) error {
	key := domain.Canonicalize(username)
	if err := s.claimRepo.DeleteClaimIfOwnedBy(ctx, s.dbExecutor, key, accountID); err != nil {
		return fmt.Errorf("release username: failed to delete claim for %q: %w", key, err)
	}
	return nil
}

func (s *registryService) DeleteAccount(ctx context.Context, accountID string) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("delete account: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("delete account: transaction controller does not implement DBExecutor")
	}

	account, err := s.accountRepo.GetAccount(ctx, txExecutor, accountID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrNotFound
		}
		return fmt.Errorf("delete account: failed to get account %s: %w", accountID, err)
	}

	if account.UsernameKey != "" {
		if err := s.claimRepo.DeleteClaimIfOwnedBy(ctx, txExecutor, account.UsernameKey, accountID); err != nil {
			return fmt.Errorf("delete account: failed to release username %q: %w", account.UsernameKey, err)
		}
	}

	if err := s.pinnedRepo.DeletePinsByOwner(ctx, txExecutor, accountID); err != nil {
		return fmt.Errorf("delete account: failed to delete pins for %s: %w", accountID, err)
	}

	// Transfer records are deliberately untouched (audit retention).
	if err := s.accountRepo.DeleteAccount(ctx, txExecutor, accountID); err != nil {
		return fmt.Errorf("delete account: failed to delete account %s: %w", accountID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("delete account: failed to commit transaction: %w", err)
	}
	return nil
}
