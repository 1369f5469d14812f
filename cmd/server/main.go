package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"campus-clubhub/internal/adapters/http/middleware"
	"campus-clubhub/internal/adapters/http/routes"
	"campus-clubhub/internal/adapters/persistence/models"
	"campus-clubhub/internal/adapters/persistence/repositories"
	"campus-clubhub/internal/config"
	"campus-clubhub/internal/core/authz"
	"campus-clubhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed roles and the bootstrap admin
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed: %v", err)
	}

	// Nightly jobs: budget reconcile and refresh token cleanup
	budgetRepo := repositories.NewBudgetRepository(db)
	clubRepo := repositories.NewClubRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	budgetService := services.NewBudgetService(budgetRepo, clubRepo, authz.NewGuard(membershipRepo))
	cronService := services.NewCronService(budgetService, refreshTokenRepo)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Campus ClubHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
