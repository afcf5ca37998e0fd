// internal/api/handler/wallet.go
package handler

import (
	"log/slog"
	"net/http"

	"bithero/internal/api/middleware"
	"bithero/internal/domain"
	"bithero/internal/service"
	"bithero/pkg/walletbridge"
)

// WalletHandler handles wallet-extension connection requests.
type WalletHandler struct {
	registry service.RegistryService
	bridge   *walletbridge.Bridge
	logger   *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(registry service.RegistryService, bridge *walletbridge.Bridge, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		registry: registry,
		bridge:   bridge,
		logger:   logger,
	}
}

// Connect probes the ranked wallet providers and stores the first reported
// address on the caller's profile.
// POST /wallet/connect
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	addresses, err := h.bridge.ListAddresses(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	address := addresses[0]
	account, err := h.registry.UpsertProfile(r.Context(), accountID, domain.ProfileUpdate{
		WalletAddress: &address.Address,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"account": account,
		"chain":   address.Chain,
	})
}
