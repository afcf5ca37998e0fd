// internal/api/handler/registry.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bithero/internal/api/middleware"
	"bithero/internal/domain"
	"bithero/internal/service"
	"bithero/internal/util"
)

// RegistryHandler handles HTTP requests for username and profile operations.
type RegistryHandler struct {
	service service.RegistryService
	logger  *slog.Logger
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(svc service.RegistryService, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{
		service: svc,
		logger:  logger,
	}
}

// GetAvailability handles the username availability check.
// GET /usernames/{username}/availability
func (h *RegistryHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	// Anonymous callers get plain taken/free semantics; for an authenticated
	// caller their own claim still counts as available.
	currentAccountID, _ := middleware.AccountIDFromContext(r.Context())

	available, err := h.service.IsUsernameAvailable(r.Context(), currentAccountID, username)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"username":  domain.Canonicalize(username),
		"available": available,
	})
}

// ResolveUser handles username-based user lookup.
// GET /users/{username}
func (h *RegistryHandler) ResolveUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.ResolveByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, account)
}

// GetMe returns the authenticated account.
// GET /accounts/me
func (h *RegistryHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, account)
}

// ProfileUpdateRequest represents the request body for profile updates.
// Absent fields leave the stored values untouched.
type ProfileUpdateRequest struct {
	DisplayName   *string `json:"display_name"`
	AvatarURL     *string `json:"avatar_url"`
	WalletAddress *string `json:"wallet_address"`
	Username      *string `json:"username"`
}

// UpdateMe handles partial profile updates for the authenticated account.
// PATCH /accounts/me
func (h *RegistryHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	account, err := h.service.UpsertProfile(r.Context(), accountID, domain.ProfileUpdate{
		DisplayName:   req.DisplayName,
		AvatarURL:     req.AvatarURL,
		WalletAddress: req.WalletAddress,
		Username:      req.Username,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, account)
}

// DeleteMe deletes the authenticated account.
// DELETE /accounts/me
func (h *RegistryHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	if err := h.service.DeleteAccount(r.Context(), accountID); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// UsernameRequest represents the request body for claim and release.
type UsernameRequest struct {
	Username string `json:"username"`
}

// ClaimUsername handles the username claim.
// POST /accounts/me/username
func (h *RegistryHandler) ClaimUsername(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req UsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	if err := h.service.ClaimUsername(r.Context(), accountID, req.Username); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{
		"message":  "Username claimed",
		"username": domain.Canonicalize(req.Username),
	})
}

// ReleaseUsername handles the username release.
// DELETE /accounts/me/username
func (h *RegistryHandler) ReleaseUsername(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req UsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	if err := h.service.ReleaseUsername(r.Context(), accountID, req.Username); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Username released"})
}
