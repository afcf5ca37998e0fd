// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"bithero/internal/api/handler"
	"bithero/internal/api/middleware"
	"bithero/pkg/ratelimit"
)

// RouterDeps bundles the handlers and middleware inputs the router wires up.
type RouterDeps struct {
	Registry *handler.RegistryHandler
	Ledger   *handler.LedgerHandler
	Wallet   *handler.WalletHandler

	JWTSecret string
	// Limiter may be nil; availability checks are then unthrottled.
	Limiter                        *ratelimit.Limiter
	AvailabilityRateLimitPerMinute int
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(deps RouterDeps, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public lookups. Availability accepts an optional token so a caller's
	// own claim reads as available, and is throttled as the one endpoint
	// that invites polling.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthenticator(deps.JWTSecret))
		if deps.Limiter != nil && deps.AvailabilityRateLimitPerMinute > 0 {
			r.Use(middleware.RateLimit(deps.Limiter, logger, "availability", deps.AvailabilityRateLimitPerMinute, time.Minute))
		}
		r.Get("/usernames/{username}/availability", deps.Registry.GetAvailability)
	})
	r.Get("/users/{username}", deps.Registry.ResolveUser)

	// Everything below acts on the authenticated account.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(deps.JWTSecret))

		r.Route("/accounts/me", func(r chi.Router) {
			r.Get("/", deps.Registry.GetMe)
			r.Patch("/", deps.Registry.UpdateMe)
			r.Delete("/", deps.Registry.DeleteMe)
			r.Post("/username", deps.Registry.ClaimUsername)
			r.Delete("/username", deps.Registry.ReleaseUsername)
		})

		r.Post("/wallet/connect", deps.Wallet.Connect)

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", deps.Ledger.LogTransfer)
			r.Get("/", deps.Ledger.GetRecentTransfers)
		})

		r.Route("/contacts/pinned", func(r chi.Router) {
			r.Get("/", deps.Ledger.GetPinnedContacts)
			r.Put("/{contactAccountID}", deps.Ledger.PinContact)
			r.Delete("/{contactAccountID}", deps.Ledger.UnpinContact)
		})
	})

	return r
}
