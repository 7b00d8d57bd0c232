package main

import (
	"fmt"
	"log"
	"time"

	"stroycalc/internal/common/config"
	"stroycalc/internal/common/middleware"
	"stroycalc/internal/visualizer/handlers"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Visualizer Service
// ============================================================

func main() {
	cfg := config.MustLoad("visualizer")

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Visualizer Service",
		ErrorHandler: middleware.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("visualizer"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Visualizer Routes
	// ============================================================

	h := handlers.NewVisualizerHandler(cfg.Scene)

	app.Post("/layout", h.Layout)
	app.Post("/scene", h.Scene)
	app.Post("/scene/recolor", h.Recolor)
	app.Post("/render", h.Render)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Visualizer Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
