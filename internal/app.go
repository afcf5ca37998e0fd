// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	router "bithero/internal/api"
	"bithero/internal/api/handler"
	"bithero/internal/config"
	"bithero/internal/repository"
	"bithero/internal/repository/postgres"
	"bithero/internal/service"
	"bithero/internal/util"
	"bithero/pkg/db"
	"bithero/pkg/ratelimit"
	"bithero/pkg/walletbridge"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	AccountRepository       repository.AccountRepository
	ClaimRepository         repository.ClaimRepository
	TransferRepository      repository.TransferRepository
	PinnedContactRepository repository.PinnedContactRepository

	// Services
	RegistryService service.RegistryService
	LedgerService   service.LedgerService

	// Wallet bridge; providers are registered per deployment.
	Bridge *walletbridge.Bridge

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context, providers ...walletbridge.Provider) error {
	// 1. Initialize Logger first so initialization failures are reported
	// through it.
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and run migrations
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.MigrateUp(app.DB); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	app.Logger.Info("Database migrations applied.")

	// 4. Connect to Redis when configured; the rate limiter degrades to a
	// no-op without it.
	if app.Config.RedisURL != "" {
		opts, err := redis.ParseURL(app.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		app.Redis = redis.NewClient(opts)
		app.Logger.Info("Redis connection configured.")
	}

	// 5. Initialize Repositories
	app.AccountRepository = postgres.NewAccountRepository(app.DB)
	app.ClaimRepository = postgres.NewClaimRepository(app.DB)
	app.TransferRepository = postgres.NewTransferRepository(app.DB)
	app.PinnedContactRepository = postgres.NewPinnedContactRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	app.RegistryService = service.NewRegistryService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.AccountRepository,
		app.ClaimRepository,
		app.PinnedContactRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.LedgerService = service.NewLedgerService(
		app.DB,
		app.RegistryService,
		app.TransferRepository,
		app.PinnedContactRepository,
	)
	app.Logger.Info("Services initialized.")

	// 7. Wallet bridge
	app.Bridge = walletbridge.New(app.Logger, walletbridge.DefaultAttemptTimeout, providers...)

	// 8. Initialize HTTP Handlers and Router
	var limiter *ratelimit.Limiter
	if app.Redis != nil {
		limiter = ratelimit.NewLimiter(app.Redis, "")
	}
	app.HTTPHandler = router.NewRouter(router.RouterDeps{
		Registry:                       handler.NewRegistryHandler(app.RegistryService, app.Logger),
		Ledger:                         handler.NewLedgerHandler(app.LedgerService, app.Bridge, app.Logger),
		Wallet:                         handler.NewWalletHandler(app.RegistryService, app.Bridge, app.Logger),
		JWTSecret:                      app.Config.JWTSecret,
		Limiter:                        limiter,
		AvailabilityRateLimitPerMinute: app.Config.AvailabilityRateLimitPerMinute,
	}, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close Redis connection", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
