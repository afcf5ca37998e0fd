// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"bithero/internal/api/middleware"
	"bithero/internal/api/types"
	"bithero/internal/domain"
	"bithero/internal/service"
	"bithero/internal/util"
	"bithero/pkg/walletbridge"
)

// LedgerHandler handles HTTP requests for transfer records and pinned
// contacts.
type LedgerHandler struct {
	service service.LedgerService
	bridge  *walletbridge.Bridge
	logger  *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler. The bridge may be nil when
// no wallet providers are configured; transfers are then logged without a
// submission attempt.
func NewLedgerHandler(svc service.LedgerService, bridge *walletbridge.Bridge, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: svc,
		bridge:  bridge,
		logger:  logger,
	}
}

// TransferRequest represents the request body for logging a transfer. The
// amount is accepted as a JSON number or string and must be a positive
// integer count of minor units.
type TransferRequest struct {
	ToUsername string          `json:"to_username"`
	Amount     json.RawMessage `json:"amount"`
	Note       *string         `json:"note"`
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// parseAmount rejects non-numeric, fractional, non-positive and overflowing
// amounts uniformly before the int64 conversion.
func parseAmount(raw json.RawMessage) (int64, error) {
	trimmed := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if trimmed == "" || trimmed == "null" {
		return 0, util.ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, util.ErrInvalidAmount
	}
	if !amount.IsInteger() || amount.Sign() <= 0 || amount.Cmp(maxAmount) > 0 {
		return 0, util.ErrInvalidAmount
	}
	return amount.IntPart(), nil
}

// LogTransfer appends a transfer record and then hands the resolved address
// to the wallet bridge. The record is the source of truth; the submission
// attempt is best-effort and its outcome is only logged.
// POST /transfers
func (h *LedgerHandler) LogTransfer(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	record, err := h.service.LogTransfer(r.Context(), accountID, req.ToUsername, amount, req.Note)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	if h.bridge != nil && record.ToAddress != "" {
		note := ""
		if record.Note != nil {
			note = *record.Note
		}
		txID, err := h.bridge.RequestTransfer(r.Context(), walletbridge.TransferRequest{
			ToAddress:        record.ToAddress,
			AmountMinorUnits: record.AmountMinorUnits,
			Note:             note,
		})
		if err != nil {
			h.logger.Warn("wallet submission failed after logging transfer", "transfer_id", record.ID, "error", err)
		} else {
			h.logger.Info("transfer submitted to wallet", "transfer_id", record.ID, "tx_id", txID)
		}
	}

	respondWithJSON(h.logger, w, http.StatusCreated, record)
}

// GetRecentTransfers returns the caller's sent transfers, newest first.
// GET /transfers?limit=
func (h *LedgerHandler) GetRecentTransfers(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = service.DefaultRecentTransfersLimit
	}

	transfers, err := h.service.GetRecentTransfers(r.Context(), accountID, limit)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.ListResponse[domain.TransferRecord]{
		Data:  transfers,
		Limit: limit,
	})
}

// PinRequest represents the request body for pinning a contact.
type PinRequest struct {
	ContactUsername string `json:"contact_username"`
}

// PinContact pins a contact for the caller. Re-pinning refreshes the pin.
// PUT /contacts/pinned/{contactAccountID}
func (h *LedgerHandler) PinContact(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	contactAccountID := chi.URLParam(r, "contactAccountID")

	var req PinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ContactUsername == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	if err := h.service.PinContact(r.Context(), accountID, contactAccountID, req.ContactUsername); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Contact pinned"})
}

// UnpinContact removes a pin. Unpinning an absent pin succeeds.
// DELETE /contacts/pinned/{contactAccountID}
func (h *LedgerHandler) UnpinContact(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	contactAccountID := chi.URLParam(r, "contactAccountID")

	if err := h.service.UnpinContact(r.Context(), accountID, contactAccountID); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Contact unpinned"})
}

// GetPinnedContacts returns the caller's pins, most recently pinned first.
// GET /contacts/pinned?limit=
func (h *LedgerHandler) GetPinnedContacts(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = service.DefaultPinnedContactsLimit
	}

	pins, err := h.service.GetPinnedContacts(r.Context(), accountID, limit)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.ListResponse[domain.PinnedContact]{
		Data:  pins,
		Limit: limit,
	})
}
