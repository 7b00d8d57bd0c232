package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"stroycalc/internal/account/models"
	"stroycalc/internal/account/repository"
	"stroycalc/internal/account/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Budget Handler
// ============================================================

type BudgetHandler struct {
	repo    *repository.Repository
	exports *service.ExportRenderer
	storage *service.ExportStorage
}

func NewBudgetHandler(repo *repository.Repository, exports *service.ExportRenderer, storage *service.ExportStorage) *BudgetHandler {
	return &BudgetHandler{
		repo:    repo,
		exports: exports,
		storage: storage,
	}
}

type budgetRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *BudgetHandler) List(c fiber.Ctx) error {
	budgets, err := h.repo.ListBudgets(context.Background(), currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(budgets)
}

func (h *BudgetHandler) Create(c fiber.Ctx) error {
	var req budgetRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if err := validateTitle(req.Title); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	b, err := h.repo.CreateBudget(context.Background(), currentUser(c), strings.TrimSpace(req.Title), req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(b)
}

func (h *BudgetHandler) Get(c fiber.Ctx) error {
	b, err := h.repo.GetBudget(context.Background(), currentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(b)
}

// Update обслуживает PUT (title обязателен) и PATCH (частичное обновление).
func (h *BudgetHandler) Update(c fiber.Ctx) error {
	var patch models.BudgetPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	if c.Method() == http.MethodPut && !patch.Title.Set {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if patch.Title.Set {
		title := ""
		if patch.Title.Value != nil {
			title = strings.TrimSpace(*patch.Title.Value)
		}
		if err := validateTitle(title); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		patch.Title = models.Some(title)
	}

	b, err := h.repo.UpdateBudget(context.Background(), currentUser(c), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(b)
}

func (h *BudgetHandler) Delete(c fiber.Ctx) error {
	if err := h.repo.DeleteBudget(context.Background(), currentUser(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddCalculation добавляет расчет в смету или обновляет его стоимость.
func (h *BudgetHandler) AddCalculation(c fiber.Ctx) error {
	var in models.BudgetItemInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if in.CalculationID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "calculation_id is required"})
	}
	for _, cost := range []models.Optional[float64]{in.PlannedCost, in.ActualCost} {
		if cost.Value != nil && *cost.Value < 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "cost must be non-negative"})
		}
	}

	item, err := h.repo.UpsertBudgetItem(context.Background(), currentUser(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

func (h *BudgetHandler) RemoveCalculation(c fiber.Ctx) error {
	if err := h.repo.DeleteBudgetItem(context.Background(), currentUser(c), c.Params("id"), c.Params("itemId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"status": "calculation removed from budget"})
}

// Chart отдает данные для диаграмм сметы.
func (h *BudgetHandler) Chart(c fiber.Ctx) error {
	b, err := h.repo.GetBudget(context.Background(), currentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(service.BuildBudgetChart(*b))
}

// Export выгружает смету: ?format=xlsx|pdf.
func (h *BudgetHandler) Export(c fiber.Ctx) error {
	b, err := h.repo.GetBudget(context.Background(), currentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	exp, err := h.exports.Budget(b, c.Query("format", service.FormatXLSX))
	if err != nil {
		return writeError(c, err)
	}
	return sendExport(c, h.storage, exp)
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxBudgetTitle {
		return fmt.Errorf("title must be at most %d characters", models.MaxBudgetTitle)
	}
	return nil
}
