package routes

import (
	"welin-backend/internal/adapters/http/handlers"
	"welin-backend/internal/adapters/http/middleware"
	"welin-backend/internal/adapters/persistence/repositories"
	"welin-backend/internal/config"
	"welin-backend/internal/core/domain"
	"welin-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. It returns the payment
// service so the caller can attach the cleanup sweep to it.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.PaymentService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	coverRepo := repositories.NewLoanCoverRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	premiumRepo := repositories.NewPremiumRepository(db)
	welinIDRepo := repositories.NewWelinIDRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, memberRepo, cfg)
	userService := services.NewUserService(userRepo, memberRepo)
	memberService := services.NewMemberService(memberRepo, userRepo, coverRepo, welinIDRepo)
	coverService := services.NewLoanCoverService(coverRepo, memberRepo, userRepo)
	paymentService := services.NewPaymentService(paymentRepo, services.NewRazorpayGateway(cfg), cfg)
	premiumService := services.NewPremiumService(premiumRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	agentHandler := handlers.NewAgentHandler(userService)
	memberHandler := handlers.NewMemberHandler(memberService)
	coverHandler := handlers.NewLoanCoverHandler(coverService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	premiumHandler := handlers.NewPremiumHandler(premiumService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	protected := middleware.Protected(cfg, userRepo)

	api := app.Group("/api")

	// Auth routes (public, rate limited)
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/member-login", middleware.AuthRateLimiter(), authHandler.MemberLogin)

	// Admin routes
	adminRoutes := api.Group("/admin")
	adminRoutes.Use(protected)
	adminRoutes.Use(middleware.RequireRole(domain.RoleAdmin))
	adminRoutes.Post("/users", userHandler.Create)
	adminRoutes.Get("/users", userHandler.List)
	adminRoutes.Put("/users/:id", userHandler.Update)
	adminRoutes.Patch("/users/:id/active", userHandler.SetActive)
	adminRoutes.Get("/vendors", userHandler.ListVendors)
	adminRoutes.Get("/vendors/:vendorId/members", memberHandler.ListByVendor)
	adminRoutes.Get("/counts", userHandler.Counts)
	adminRoutes.Get("/check-mobile", userHandler.CheckMobile)

	// Agent routes (vendor only)
	agentRoutes := api.Group("/agent")
	agentRoutes.Use(protected)
	agentRoutes.Use(middleware.RequireRole(domain.RoleVendor))
	agentRoutes.Post("/", agentHandler.Create)
	agentRoutes.Get("/", agentHandler.List)

	// Member routes
	memberRoutes := api.Group("/member")
	memberRoutes.Use(protected)
	memberRoutes.Post("/", middleware.RequireAnyRole(domain.RoleVendor, domain.RoleAgent), memberHandler.Create)
	memberRoutes.Get("/", middleware.RequireRole(domain.RoleAdmin), memberHandler.List)
	memberRoutes.Get("/vendor/:vendorId", middleware.RequireRole(domain.RoleVendor), memberHandler.ListByVendor)
	memberRoutes.Get("/agent/:agentId", middleware.RequireAnyRole(domain.RoleVendor, domain.RoleAgent), memberHandler.ListByAgent)
	memberRoutes.Get("/:welinId", memberHandler.GetByWelinID)
	memberRoutes.Put("/:id", middleware.RequireAnyRole(domain.RoleVendor, domain.RoleAgent), memberHandler.Update)
	memberRoutes.Delete("/:id", middleware.RequireRole(domain.RoleAdmin), memberHandler.Delete)
	memberRoutes.Get("/:id/products", memberHandler.GetProducts)

	// Loan cover routes
	coverRoutes := api.Group("/loan-cover")
	coverRoutes.Use(protected)
	coverRoutes.Post("/", middleware.RequireAnyRole(domain.RoleVendor, domain.RoleAgent), coverHandler.Create)
	coverRoutes.Get("/member/:memberId", coverHandler.ListByMember)
	coverRoutes.Get("/vendor/:vendorId", middleware.RequireRole(domain.RoleVendor), coverHandler.ListByVendor)
	coverRoutes.Get("/:id", coverHandler.Get)
	coverRoutes.Patch("/:id/payment", middleware.RequireAnyRole(domain.RoleVendor, domain.RoleAgent), coverHandler.UpdatePayment)

	// Payment routes (never cached)
	paymentRoutes := api.Group("/payments")
	paymentRoutes.Use(protected)
	paymentRoutes.Use(middleware.NoCacheHeaders())
	paymentRoutes.Post("/", paymentHandler.Create)
	paymentRoutes.Get("/", middleware.RequireRole(domain.RoleAdmin), paymentHandler.List)
	paymentRoutes.Post("/verify-qr/:transactionId", paymentHandler.VerifyQR)
	paymentRoutes.Post("/gateway/order", paymentHandler.CreateGatewayOrder)
	paymentRoutes.Post("/gateway/success/:transactionId", paymentHandler.GatewaySuccess)
	paymentRoutes.Get("/:id", paymentHandler.Get)
	paymentRoutes.Put("/:id", middleware.RequireRole(domain.RoleAdmin), paymentHandler.Update)
	paymentRoutes.Delete("/:id", middleware.RequireRole(domain.RoleAdmin), paymentHandler.Delete)

	// Premium routes: import is admin work, lookup serves public quote forms
	premiumRoutes := api.Group("/premium")
	premiumRoutes.Post("/import", protected, middleware.RequireRole(domain.RoleAdmin), middleware.StrictRateLimiter(), premiumHandler.Import)
	premiumRoutes.Get("/lookup", middleware.PremiumCache(), premiumHandler.Lookup)

	return paymentService
}
