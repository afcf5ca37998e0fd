// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/mock"

	"bithero/internal/domain"
	"bithero/internal/repository"
	"bithero/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockAccountRepository is a mock implementation of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetAccount(ctx context.Context, q repository.DBExecutor, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, q, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpsertUsername(ctx context.Context, q repository.DBExecutor, accountID, username, usernameKey string) error {
	args := m.Called(ctx, q, accountID, username, usernameKey)
	return args.Error(0)
}

func (m *MockAccountRepository) UpsertProfile(ctx context.Context, q repository.DBExecutor, accountID string, update domain.ProfileUpdate) error {
	args := m.Called(ctx, q, accountID, update)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, q repository.DBExecutor, accountID string) error {
	args := m.Called(ctx, q, accountID)
	return args.Error(0)
}

// MockClaimRepository is a mock implementation of repository.ClaimRepository.
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) GetClaim(ctx context.Context, q repository.DBExecutor, usernameKey string) (*domain.UsernameClaim, error) {
	args := m.Called(ctx, q, usernameKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UsernameClaim), args.Error(1)
}

func (m *MockClaimRepository) GetClaimForUpdate(ctx context.Context, q repository.DBExecutor, usernameKey string) (*domain.UsernameClaim, error) {
	args := m.Called(ctx, q, usernameKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UsernameClaim), args.Error(1)
}

func (m *MockClaimRepository) UpsertClaim(ctx context.Context, q repository.DBExecutor, claim *domain.UsernameClaim) error {
	args := m.Called(ctx, q, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) DeleteClaimIfOwnedBy(ctx context.Context, q repository.DBExecutor, usernameKey, accountID string) error {
	args := m.Called(ctx, q, usernameKey, accountID)
	return args.Error(0)
}

// MockTransferRepository is a mock implementation of repository.TransferRepository.
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) CreateTransfer(ctx context.Context, q repository.DBExecutor, record *domain.TransferRecord) error {
	args := m.Called(ctx, q, record)
	return args.Error(0)
}

func (m *MockTransferRepository) GetRecentTransfers(ctx context.Context, q repository.DBExecutor, accountID string, limit int) ([]domain.TransferRecord, error) {
	args := m.Called(ctx, q, accountID, limit)
	return args.Get(0).([]domain.TransferRecord), args.Error(1)
}

// MockPinnedContactRepository is a mock implementation of repository.PinnedContactRepository.
type MockPinnedContactRepository struct {
	mock.Mock
}

func (m *MockPinnedContactRepository) UpsertPin(ctx context.Context, q repository.DBExecutor, pin *domain.PinnedContact) error {
	args := m.Called(ctx, q, pin)
	return args.Error(0)
}

func (m *MockPinnedContactRepository) DeletePin(ctx context.Context, q repository.DBExecutor, ownerAccountID, contactAccountID string) error {
	args := m.Called(ctx, q, ownerAccountID, contactAccountID)
	return args.Error(0)
}

func (m *MockPinnedContactRepository) GetPinnedContacts(ctx context.Context, q repository.DBExecutor, ownerAccountID string, limit int) ([]domain.PinnedContact, error) {
	args := m.Called(ctx, q, ownerAccountID, limit)
	return args.Get(0).([]domain.PinnedContact), args.Error(1)
}

func (m *MockPinnedContactRepository) DeletePinsByOwner(ctx context.Context, q repository.DBExecutor, ownerAccountID string) error {
	args := m.Called(ctx, q, ownerAccountID)
	return args.Error(0)
}

// MockRegistryService is a mock implementation of RegistryService, used by
// the ledger tests to control recipient resolution.
type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) IsUsernameAvailable(ctx context.Context, currentAccountID, username string) (bool, error) {
	args := m.Called(ctx, currentAccountID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegistryService) ClaimUsername(ctx context.Context, accountID, username string) error {
	args := m.Called(ctx, accountID, username)
	return args.Error(0)
}

func (m *MockRegistryService) ResolveByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockRegistryService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockRegistryService) UpsertProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error) {
	args := m.Called(ctx, accountID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockRegistryService) ReleaseUsername(ctx context.Context, accountID, username string) error {
	args := m.Called(ctx, accountID, username)
	return args.Error(0)
}

func (m *MockRegistryService) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockTxController is a mock implementation of db.TxController. Embedding
// MockDBExecutor also satisfies repository.DBExecutor, which the service
// asserts at transaction time.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// registryFixture bundles the mocks behind a RegistryService instance with
// transaction funcs routed to the mock controller.
type registryFixture struct {
	accountRepo  *MockAccountRepository
	claimRepo    *MockClaimRepository
	pinnedRepo   *MockPinnedContactRepository
	dbExecutor   *MockDBExecutor
	txController *MockTxController
	service      RegistryService
}

func newRegistryFixture(t *testing.T) *registryFixture {
	t.Helper()
	f := &registryFixture{
		accountRepo:  new(MockAccountRepository),
		claimRepo:    new(MockClaimRepository),
		pinnedRepo:   new(MockPinnedContactRepository),
		dbExecutor:   new(MockDBExecutor),
		txController: new(MockTxController),
	}
	f.service = NewRegistryService(
		nil, // DBTxBeginner is bypassed by the injected beginTx below
		f.dbExecutor,
		f.accountRepo,
		f.claimRepo,
		f.pinnedRepo,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return f.txController, nil
		},
		func(tx db.TxController) error {
			return f.txController.Commit()
		},
		func(tx db.TxController) {
			_ = f.txController.Rollback()
		},
	)
	return f
}

func (f *registryFixture) assertExpectations(t *testing.T) {
	t.Helper()
	mock.AssertExpectationsForObjects(t, f.accountRepo, f.claimRepo, f.pinnedRepo, f.dbExecutor, f.txController)
}
