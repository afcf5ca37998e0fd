// internal/api/handler/mocks_test.go
package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"bithero/internal/api/middleware"
	"bithero/internal/domain"
)

// MockRegistryService is a mock implementation of service.RegistryService.
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

// MockLedgerService is a mock implementation of service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) LogTransfer(ctx context.Context, fromAccountID, toUsername string, amountMinorUnits int64, note *string) (*domain.TransferRecord, error) {
	args := m.Called(ctx, fromAccountID, toUsername, amountMinorUnits, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferRecord), args.Error(1)
}

func (m *MockLedgerService) GetRecentTransfers(ctx context.Context, accountID string, max int) ([]domain.TransferRecord, error) {
	args := m.Called(ctx, accountID, max)
	return args.Get(0).([]domain.TransferRecord), args.Error(1)
}

func (m *MockLedgerService) PinContact(ctx context.Context, ownerAccountID, contactAccountID, contactUsername string) error {
	args := m.Called(ctx, ownerAccountID, contactAccountID, contactUsername)
	return args.Error(0)
}

func (m *MockLedgerService) UnpinContact(ctx context.Context, ownerAccountID, contactAccountID string) error {
	args := m.Called(ctx, ownerAccountID, contactAccountID)
	return args.Error(0)
}

func (m *MockLedgerService) GetPinnedContacts(ctx context.Context, ownerAccountID string, max int) ([]domain.PinnedContact, error) {
	args := m.Called(ctx, ownerAccountID, max)
	return args.Get(0).([]domain.PinnedContact), args.Error(1)
}

// newTestRequest builds a request with an authenticated account and chi URL
// params, the way the router middleware would deliver it.
func newTestRequest(method, target, accountID, body string, urlParams map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	ctx := req.Context()
	if accountID != "" {
		ctx = middleware.WithAccountID(ctx, accountID)
	}
	if len(urlParams) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range urlParams {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx), httptest.NewRecorder()
}
