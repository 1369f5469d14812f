package routes

import (
	"campus-clubhub/internal/adapters/http/handlers"
	"campus-clubhub/internal/adapters/http/middleware"
	"campus-clubhub/internal/adapters/persistence/repositories"
	"campus-clubhub/internal/config"
	"campus-clubhub/internal/core/authz"
	"campus-clubhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	personRepo := repositories.NewPersonRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	clubRepo := repositories.NewClubRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	budgetRepo := repositories.NewBudgetRepository(db)

	// The guard answers every club-scoped authorization question
	guard := authz.NewGuard(membershipRepo)

	// Initialize services
	authService := services.NewAuthService(personRepo, roleRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(personRepo, roleRepo, membershipRepo)
	clubService := services.NewClubService(clubRepo, guard)
	membershipService := services.NewMembershipService(membershipRepo, clubRepo, personRepo, guard)
	eventService := services.NewEventService(eventRepo, clubRepo, membershipRepo, guard)
	budgetService := services.NewBudgetService(budgetRepo, clubRepo, guard)
	approvalService := services.NewApprovalService(clubRepo, membershipRepo, budgetRepo, guard)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	clubHandler := handlers.NewClubHandler(clubService, membershipService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	eventHandler := handlers.NewEventHandler(eventService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	requestHandler := handlers.NewRequestHandler(approvalService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	api := app.Group("/api/v1")
	api.Get("/", healthHandler.APIInfo)

	// Auth routes (stricter rate limit on the credential endpoints)
	auth := api.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	auth.Get("/me/capabilities", middleware.AuthMiddleware(cfg), userHandler.MyCapabilities)

	// People routes
	people := api.Group("/people")
	people.Get("/", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), userHandler.List)
	people.Get("/:id", middleware.AuthMiddleware(cfg), userHandler.GetByID)
	people.Patch("/me", middleware.AuthMiddleware(cfg), userHandler.UpdateProfile)
	people.Patch("/:id/role", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), userHandler.AssignRole)
	people.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), userHandler.Delete)

	// Club routes. Listings are public with a short cache; the service
	// widens results for admins, so the listing takes optional auth.
	clubs := api.Group("/clubs")
	clubs.Get("/", middleware.OptionalAuth(cfg), middleware.PublicListingCache(), clubHandler.List)
	clubs.Get("/:id", middleware.PublicListingCache(), clubHandler.GetByID)
	clubs.Post("/", middleware.AuthMiddleware(cfg), clubHandler.Create)
	clubs.Patch("/:id", middleware.AuthMiddleware(cfg), clubHandler.Update)
	clubs.Delete("/:id", middleware.AuthMiddleware(cfg), clubHandler.Delete)
	clubs.Get("/:id/members", middleware.AuthMiddleware(cfg), clubHandler.Members)
	clubs.Post("/:id/members", middleware.AuthMiddleware(cfg), clubHandler.AddMember)
	clubs.Delete("/:id/members/:personId", middleware.AuthMiddleware(cfg), clubHandler.RemoveMember)
	clubs.Post("/:id/join", middleware.AuthMiddleware(cfg), clubHandler.Join)
	clubs.Get("/:clubId/events", eventHandler.ByClub)
	clubs.Get("/:clubId/budgets", middleware.AuthMiddleware(cfg), budgetHandler.ByClub)

	// Membership routes
	memberships := api.Group("/memberships", middleware.AuthMiddleware(cfg))
	memberships.Get("/mine", membershipHandler.Mine)
	memberships.Patch("/:id/role", membershipHandler.AssignRole)

	// Event routes
	events := api.Group("/events")
	events.Get("/", middleware.PublicListingCache(), eventHandler.List)
	events.Get("/:id", eventHandler.GetByID)
	events.Post("/", middleware.AuthMiddleware(cfg), eventHandler.Create)
	events.Patch("/:id", middleware.AuthMiddleware(cfg), eventHandler.Update)
	events.Delete("/:id", middleware.AuthMiddleware(cfg), eventHandler.Delete)
	events.Post("/:id/attendance", middleware.AuthMiddleware(cfg), eventHandler.RecordAttendance)
	events.Get("/:id/attendance", middleware.AuthMiddleware(cfg), eventHandler.Attendees)

	// Budget routes
	budgets := api.Group("/budgets", middleware.AuthMiddleware(cfg))
	budgets.Post("/", budgetHandler.Create)
	budgets.Get("/:id", budgetHandler.GetByID)
	budgets.Post("/:id/expenditures", budgetHandler.AddExpenditure)
	budgets.Get("/:id/expenditures", budgetHandler.Expenditures)
	budgets.Post("/:id/recompute", middleware.AdminOnly(), budgetHandler.Recompute)

	// Review workflow routes. The services re-check authorization through
	// the guard; the AdminOnly middleware on the club queue just fails fast.
	requests := api.Group("/requests", middleware.AuthMiddleware(cfg))
	requests.Get("/clubs", middleware.AdminOnly(), requestHandler.PendingClubs)
	requests.Patch("/clubs/:id", requestHandler.ReviewClub)
	requests.Get("/memberships", requestHandler.PendingMemberships)
	requests.Patch("/memberships/:id", requestHandler.ReviewMembership)
	requests.Get("/expenditures", requestHandler.ExpenditureRequests)
	requests.Patch("/expenditures/:id", requestHandler.ReviewExpenditure)

	// Dashboard routes
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware(cfg))
	dashboard.Get("/admin", middleware.AdminOnly(), dashboardHandler.Admin)
	dashboard.Get("/leader", dashboardHandler.Leader)
}
