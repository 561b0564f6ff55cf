// Package routes wires repositories, services and handlers onto the
// Fiber app.
package routes

import (
	"primepool/internal/config"
	"primepool/internal/handlers"
	"primepool/internal/middleware"
	"primepool/internal/repositories"
	"primepool/internal/services/auth"
	"primepool/internal/services/ledger"
	"primepool/internal/services/onboarding"
	"primepool/internal/services/referral"
	"primepool/internal/services/user"
	"primepool/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App) {
	// Repositories
	userRepo := repositories.NewUserRepository(repositories.DB)
	ledgerRepo := repositories.NewLedgerRepository(repositories.DB)

	// Services, dependency order
	ledgerService := ledger.NewService(ledgerRepo, repositories.CacheService)
	referralService := referral.NewService(
		userRepo,
		config.GetEnv("SHARE_BASE_URL", "https://primepool.app/auth"),
	)
	walletService := wallet.NewService(ledgerRepo, userRepo, ledgerService, wallet.Config{
		MinWithdraw:   config.GetFloatEnv("MIN_WITHDRAW", 0),
		MinTransfer:   config.GetFloatEnv("MIN_TRANSFER", 0),
		MinPoolPoints: int64(config.GetIntEnv("MIN_POOL_POINTS", 0)),
		HistoryLimit:  config.GetIntEnv("HISTORY_LIMIT", 0),
	})
	onboardingService := onboarding.NewService(
		userRepo,
		referralService,
		ledgerService,
		config.GetFloatEnv("START_BONUS", onboarding.DefaultStartBonus),
	)
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, onboardingService)
	walletHandler := handlers.NewWalletHandler(walletService)
	referralHandler := handlers.NewReferralHandler(referralService)
	userHandler := handlers.NewUserHandler(userService, onboardingService, walletService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints. Rate limiting for register/login is applied in main.
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/oauth", authHandler.FederatedSignIn)
	api.Post("/refresh", authHandler.RefreshToken)

	// Everything below requires a valid access token.
	authMiddleware := middleware.NewAuthMiddleware(userRepo)
	protected := api.Use(authMiddleware.Handler)

	protected.Get("/dashboard", userHandler.GetDashboard)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Put("/profile/username", userHandler.UpdateUsername)
	protected.Post("/onboarding/complete", userHandler.CompleteOnboarding)
	protected.Post("/logout", authHandler.Logout)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Get("/transactions", walletHandler.History)
	walletGroup.Post("/deposit", walletHandler.RequestDeposit)
	walletGroup.Post("/withdraw", walletHandler.Withdraw)
	walletGroup.Post("/transfer", walletHandler.Transfer)
	walletGroup.Post("/pool", walletHandler.AddToPool)

	protected.Get("/referral", referralHandler.GetReferral)
}
