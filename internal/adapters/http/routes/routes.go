package routes

import (
	"refundhub/internal/adapters/http/handlers"
	"refundhub/internal/adapters/http/middleware"
	"refundhub/internal/adapters/persistence/repositories"
	"refundhub/internal/config"
	"refundhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	refundRepo := repositories.NewRefundRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	refundService := services.NewRefundService(refundRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	refundHandler := handlers.NewRefundHandler(refundService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Public routes: signup and sessions
	userRoutes := app.Group("/users")
	userRoutes.Post("/", middleware.AuthRateLimiter(), authHandler.Register)

	sessionRoutes := app.Group("/sessions")
	sessionRoutes.Post("/", middleware.AuthRateLimiter(), authHandler.Login)
	sessionRoutes.Post("/refresh", authHandler.Refresh)
	sessionRoutes.Delete("/", authHandler.Logout)

	// Protected routes: refunds
	refundRoutes := app.Group("/refunds")
	refundRoutes.Use(middleware.AuthMiddleware(cfg))
	refundRoutes.Use(middleware.NoCacheHeaders())

	// Creation is a submitter capability; managers only review
	refundRoutes.Post("/", middleware.SubmitterOnly(), refundHandler.Create)

	// Listing and detail are open to every authenticated role; the service
	// shapes the result set by role
	refundRoutes.Get("/", middleware.AnyRole(), refundHandler.List)
	refundRoutes.Get("/:id", middleware.AnyRole(), refundHandler.Get)
}
