package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"stroycalc/internal/account/handlers"
	"stroycalc/internal/account/repository"
	"stroycalc/internal/account/service"
	"stroycalc/internal/common/config"
	"stroycalc/internal/common/middleware"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Account Service
// ============================================================

func main() {
	cfg := config.MustLoad("account")
	if cfg.IsProduction() && cfg.JWTSecret == "dev-secret-change-me" {
		log.Fatalf("jwt_secret must be set in production")
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Migrate(context.Background()); err != nil {
		log.Fatalf("migrate db: %v", err)
	}

	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	exports := service.NewExportRenderer(cfg.PDFFont)
	storage := service.NewExportStorage(cfg.ExportsDir)
	visualizer := service.NewVisualizerClient(cfg.VisualizerURL, cfg.UpstreamTimeout)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Account Service",
		ErrorHandler: middleware.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("account"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := repo.Ping(context.Background()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Account Routes
	// ============================================================

	handlers.Routes(app, handlers.Handlers{
		Auth:         handlers.NewAuthHandler(repo, tokens),
		Calculations: handlers.NewCalculationHandler(repo, visualizer, exports, storage),
		Materials:    handlers.NewMaterialHandler(repo),
		Budgets:      handlers.NewBudgetHandler(repo, exports, storage),
	}, tokens)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Account Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
