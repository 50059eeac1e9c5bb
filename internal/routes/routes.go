// Package routes defines the API routing configuration.
// It wires repositories, services, and handlers together and
// registers all HTTP routes.
package routes

import (
	"vaultpay/internal/handlers"
	"vaultpay/internal/repositories"
	"vaultpay/internal/repositories/cache"
	"vaultpay/internal/services/settlement"
	usersvc "vaultpay/internal/services/user"
	walletsvc "vaultpay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheService *cache.CacheService) {
	// Repositories
	walletRepo := repositories.NewWalletRepository(db)
	userRepo := repositories.NewUserRepository(db, cacheService)

	// Services
	settler := settlement.NewProcessor()
	walletService := walletsvc.NewService(
		walletRepo,
		cacheService,
		settler,
		walletsvc.Config{},
		walletsvc.NewPrometheusCollector(),
	)
	userService := usersvc.NewService(userRepo, walletRepo)

	// Handlers
	walletHandler := handlers.NewWalletHandler(walletService)
	userHandler := handlers.NewUserHandler(userService)
	txHandler := handlers.NewTransactionHandler(walletService, walletRepo)
	healthHandler := handlers.NewHealthHandler(db, cacheService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to VaultPay API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// User routes
	api.Post("/users", userHandler.Register)
	api.Get("/users/by-email", userHandler.GetByEmail)
	api.Get("/users/:id", userHandler.Get)
	api.Get("/users/:id/wallets", userHandler.GetWallets)

	// Wallet routes
	api.Post("/wallets", walletHandler.Create)
	api.Get("/wallets/:id", walletHandler.Get)
	api.Get("/wallets/:id/balance", walletHandler.GetBalance)
	api.Post("/wallets/:id/deposit", walletHandler.Deposit)
	api.Post("/wallets/:id/withdraw", walletHandler.Withdraw)
	api.Post("/wallets/:id/transfer", walletHandler.Transfer)
	api.Post("/wallets/:id/lock", walletHandler.Lock)
	api.Post("/wallets/:id/unlock", walletHandler.Unlock)
	api.Get("/wallets/:id/transactions", txHandler.GetWalletTransactions)

	// Ledger routes
	api.Get("/transactions/:id", txHandler.Get)
	api.Get("/stats/transactions", txHandler.Stats)
}
