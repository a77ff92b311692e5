// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"time"

	"vendhub/internal/config"
	"vendhub/internal/handlers"
	"vendhub/internal/middleware"
	"vendhub/internal/repositories"
	"vendhub/internal/services/auth"
	"vendhub/internal/services/discount"
	"vendhub/internal/services/ledger"
	"vendhub/internal/services/machine"
	"vendhub/internal/services/poll"
	"vendhub/internal/services/qr"
	"vendhub/internal/services/session"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
// The session service is returned so cmd/server can drive the expiry sweeper
// through it.
func SetupRoutes(app *fiber.App, db *gorm.DB) session.Service {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	machineRepo := repositories.NewMachineRepository(db, repositories.CacheService)
	sessionRepo := repositories.NewSessionRepository(db, repositories.CacheService)
	discountRepo := repositories.NewDiscountRepository(db)
	loyaltyRepo := repositories.NewLoyaltyRepository(db)
	pollRepo := repositories.NewPollRepository(db)

	// Services
	envelope := qr.NewEnvelope(config.GetEnv("QR_ENCRYPTION_KEY", "dev-only-qr-encryption-key"))
	maxAge := time.Duration(config.GetIntEnv("QR_MAX_AGE_DAYS", 365)) * 24 * time.Hour
	qrService := qr.NewService(envelope, maxAge)

	sessionExpiry := time.Duration(config.GetIntEnv("SESSION_EXPIRY_HOURS", 24)) * time.Hour
	sessionService := session.NewService(sessionRepo, machineRepo, qrService, sessionExpiry)

	ledgerService := ledger.NewService(discountRepo, loyaltyRepo, pollRepo,
		config.GetIntEnv("REDEMPTION_POINTS", ledger.DefaultRedemptionPoints))

	authService := auth.NewService(userRepo)
	machineService := machine.NewService(machineRepo, qrService)
	discountService := discount.NewService(discountRepo)
	pollService := poll.NewService(pollRepo, machineRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	machineHandler := handlers.NewMachineHandler(machineService)
	discountHandler := handlers.NewDiscountHandler(discountService)
	pollHandler := handlers.NewPollHandler(pollService, ledgerService)
	customerHandler := handlers.NewCustomerHandler(sessionService, ledgerService,
		config.GetEnv("UPLOAD_DIR", "./uploads"))
	sessionHandler := handlers.NewSessionHandler(sessionService, machineService)

	authMiddleware := middleware.NewAuthMiddleware(authService, sessionService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.Refresh)
	api.Post("/auth/customer/qr-login", customerHandler.QRLogin)

	// Everything below resolves a bearer token (vendor JWT or session token).
	authenticated := api.Group("/", authMiddleware.Handler)
	authenticated.Post("/auth/logout", middleware.RequireVendor, authHandler.Logout)

	// Vendor surface
	machines := authenticated.Group("/machines", middleware.RequireVendor)
	machines.Post("/", machineHandler.Create)
	machines.Get("/", machineHandler.List)
	machines.Get("/:id", machineHandler.Get)
	machines.Put("/:id", machineHandler.Update)
	machines.Post("/:id/qr", machineHandler.ProvisionQR)
	machines.Post("/:id/products", machineHandler.AddProduct)
	machines.Get("/:id/products", machineHandler.ListProducts)
	machines.Get("/:id/polls", pollHandler.ListByMachine)
	machines.Get("/:id/sessions", sessionHandler.ActiveByMachine)

	discounts := authenticated.Group("/discounts", middleware.RequireVendor)
	discounts.Post("/", discountHandler.Create)
	discounts.Get("/", discountHandler.List)
	discounts.Put("/:id", discountHandler.Update)
	discounts.Delete("/:id", discountHandler.Deactivate)

	polls := authenticated.Group("/polls", middleware.RequireVendor)
	polls.Post("/", pollHandler.Create)
	polls.Put("/:id/close", pollHandler.Close)
	polls.Get("/:pollId/results", pollHandler.Results)

	// Customer surface (session-token bearers)
	customer := authenticated.Group("/customer", middleware.RequireSession)
	customer.Post("/link", customerHandler.Link)
	customer.Get("/machine", customerHandler.Machine)
	customer.Post("/discounts/redeem", customerHandler.Redeem)
	customer.Post("/redemptions/submit", customerHandler.SubmitProof)
	customer.Get("/points", customerHandler.Points)
	customer.Post("/polls/:pollId/vote", pollHandler.Vote)
	customer.Get("/polls/:pollId/results", pollHandler.Results)

	return sessionService
}
