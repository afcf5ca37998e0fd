// pkg/walletbridge/bridge.go
//
// Package walletbridge abstracts the browser wallet-extension landscape as a
// ranked list of providers probed in order. Vendor APIs in this space are
// undocumented and unstable, and several providers may coexist, so every
// call is best-effort: each attempt is independently time-boxed and the
// first successful response is authoritative.
package walletbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultAttemptTimeout bounds a single provider attempt. Matches the
// connection timeout the most stubborn known provider needs.
const DefaultAttemptTimeout = 5 * time.Second

// ErrNoProvider is returned when every registered provider failed or none
// are registered.
var ErrNoProvider = errors.New("no wallet provider responded")

// Address is a wallet address reported by a provider for a chain.
type Address struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

// TransferRequest is the resolved tuple handed to a provider for on-chain
// submission. The ledger has already logged the intent; submission outcome
// is only ever observed by whoever is calling.
type TransferRequest struct {
	ToAddress        string
	AmountMinorUnits int64
	Note             string
}

// Provider is one wallet extension capability.
type Provider interface {
	Name() string
	ListAddresses(ctx context.Context) ([]Address, error)
	RequestTransfer(ctx context.Context, req TransferRequest) (txID string, err error)
}

// Bridge probes providers in rank order with a per-attempt timeout.
type Bridge struct {
	providers      []Provider
	attemptTimeout time.Duration
	logger         *slog.Logger
}

// New creates a Bridge over the given providers, ranked by preference.
// A non-positive attemptTimeout falls back to DefaultAttemptTimeout.
func New(logger *slog.Logger, attemptTimeout time.Duration, providers ...Provider) *Bridge {
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &Bridge{
		providers:      providers,
		attemptTimeout: attemptTimeout,
		logger:         logger,
	}
}

// ListAddresses returns the addresses of the first provider that answers
// with at least one address.
func (b *Bridge) ListAddresses(ctx context.Context) ([]Address, error) {
	var lastErr error
	for _, p := range b.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, b.attemptTimeout)
		addresses, err := p.ListAddresses(attemptCtx)
		cancel()
		if err != nil {
			b.logger.Warn("wallet provider failed to list addresses", "provider", p.Name(), "error", err)
			lastErr = err
			continue
		}
		if len(addresses) == 0 {
			continue
		}
		return addresses, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: last error: %v", ErrNoProvider, lastErr)
	}
	return nil, ErrNoProvider
}

// RequestTransfer asks each provider in turn to submit the transfer and
// returns the first transaction ID obtained.
func (b *Bridge) RequestTransfer(ctx context.Context, req TransferRequest) (string, error) {
	var lastErr error
	for _, p := range b.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, b.attemptTimeout)
		txID, err := p.RequestTransfer(attemptCtx, req)
		cancel()
		if err != nil {
			b.logger.Warn("wallet provider rejected transfer request", "provider", p.Name(), "error", err)
			lastErr = err
			continue
		}
		return txID, nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: last error: %v", ErrNoProvider, lastErr)
	}
	return "", ErrNoProvider
}
