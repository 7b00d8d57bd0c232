package handlers

import (
	"stroycalc/internal/account/service"

	"github.com/gofiber/fiber/v3"
)

// Handlers - все обработчики сервиса аккаунтов.
type Handlers struct {
	Auth         *AuthHandler
	Calculations *CalculationHandler
	Materials    *MaterialHandler
	Budgets      *BudgetHandler
}

// Routes регистрирует маршруты под /api.
func Routes(app fiber.Router, h Handlers, tokens *service.TokenIssuer) {
	requireAuth := RequireAuth(tokens)
	api := app.Group("/api")

	// ============================================================
	// Auth
	// ============================================================

	api.Post("/auth/register", h.Auth.Register)
	api.Post("/auth/login", h.Auth.Login)
	api.Post("/auth/refresh", h.Auth.Refresh)
	api.Post("/auth/logout", h.Auth.Logout)
	api.Get("/auth/me", requireAuth, h.Auth.Me)

	// ============================================================
	// Calculations
	// ============================================================

	api.Get("/calculation-types", h.Calculations.Types)
	api.Post("/calculations", requireAuth, h.Calculations.Create)

	user := api.Group("/user", requireAuth)
	user.Get("/calculations", h.Calculations.List)
	user.Get("/calculations/:id", h.Calculations.Get)
	user.Delete("/calculations/:id", h.Calculations.Delete)
	user.Get("/calculations/:id/scene", h.Calculations.Scene)
	user.Get("/calculations/:id/export", h.Calculations.Export)

	// ============================================================
	// Materials
	// ============================================================

	user.Get("/materials", h.Materials.List)
	user.Post("/materials", h.Materials.Create)
	user.Delete("/materials/:id", h.Materials.Delete)

	// ============================================================
	// Budgets
	// ============================================================

	user.Get("/budgets", h.Budgets.List)
	user.Post("/budgets", h.Budgets.Create)
	user.Get("/budgets/:id", h.Budgets.Get)
	user.Put("/budgets/:id", h.Budgets.Update)
	user.Patch("/budgets/:id", h.Budgets.Update)
	user.Delete("/budgets/:id", h.Budgets.Delete)
	user.Post("/budgets/:id/calculations", h.Budgets.AddCalculation)
	user.Delete("/budgets/:id/calculations/:itemId", h.Budgets.RemoveCalculation)
	user.Get("/budgets/:id/chart", h.Budgets.Chart)
	user.Get("/budgets/:id/export", h.Budgets.Export)
}
