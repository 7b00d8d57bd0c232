package proxy

import (
	"github.com/gofiber/fiber/v3"
)

// Mount регистрирует маршруты сервисов на группе /api/v1.
// Визуализатор слушает без префикса, сервис аккаунтов под /api.
func Mount(api fiber.Router, p *Proxy, visualizerURL, accountURL string) {
	// ============================================================
	// Visualizer Service
	// ============================================================

	visualizer := p.To(visualizerURL, "")
	api.Post("/layout", visualizer)
	api.Post("/scene", visualizer)
	api.Post("/scene/recolor", visualizer)
	api.Post("/render", visualizer)

	// ============================================================
	// Account Service
	// ============================================================

	account := p.To(accountURL, "/api")
	api.All("/auth/*", account)
	api.Get("/calculation-types", account)
	api.Post("/calculations", account)
	api.All("/user/*", account)
}
