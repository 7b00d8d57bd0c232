package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"stroycalc/internal/account/repository"
	"stroycalc/internal/account/service"
	"stroycalc/internal/calculator"
	"stroycalc/internal/visualizer/layout"
	vmodels "stroycalc/internal/visualizer/models"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Calculation Handler
// ============================================================

type CalculationHandler struct {
	repo       *repository.Repository
	visualizer *service.VisualizerClient
	exports    *service.ExportRenderer
	storage    *service.ExportStorage
}

func NewCalculationHandler(repo *repository.Repository, visualizer *service.VisualizerClient, exports *service.ExportRenderer, storage *service.ExportStorage) *CalculationHandler {
	return &CalculationHandler{
		repo:       repo,
		visualizer: visualizer,
		exports:    exports,
		storage:    storage,
	}
}

type calculationRequest struct {
	Category string         `json:"category"`
	Type     string         `json:"type"`
	Params   map[string]any `json:"params"`
}

// Types отдает каталог категорий и полей форм.
func (h *CalculationHandler) Types(c fiber.Ctx) error {
	return c.JSON(calculator.Catalog())
}

// Create считает материалы и сохраняет расчет пользователя.
func (h *CalculationHandler) Create(c fiber.Ctx) error {
	var req calculationRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Category == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "category is required"})
	}
	if req.Type == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "calculation type is required"})
	}

	params, err := layout.Values(req.Params)
	if err != nil {
		return writeError(c, err)
	}

	result, filled, err := calculator.Calculate(req.Category, req.Type, params)
	if err != nil {
		return writeError(c, err)
	}

	calc, err := h.repo.CreateCalculation(context.Background(), currentUser(c), req.Category, req.Type, filled, result)
	if err != nil {
		return writeError(c, err)
	}

	log.Printf("[ACCOUNT] Calculation saved: %s (%s/%s)", calc.ID, calc.Category, calc.Type)
	return c.Status(http.StatusCreated).JSON(calc)
}

func (h *CalculationHandler) List(c fiber.Ctx) error {
	calcs, err := h.repo.ListCalculations(context.Background(), currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(calcs)
}

func (h *CalculationHandler) Get(c fiber.Ctx) error {
	calc, err := h.repo.GetCalculation(context.Background(), currentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(calc)
}

func (h *CalculationHandler) Delete(c fiber.Ctx) error {
	if err := h.repo.DeleteCalculation(context.Background(), currentUser(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// Scene запрашивает у визуализатора сцену сохраненного расчета.
// Цвет можно выбрать через ?group=walls&color=%23ff0000.
func (h *CalculationHandler) Scene(c fiber.Ctx) error {
	ctx := context.Background()
	calc, err := h.repo.GetCalculation(ctx, currentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	var selections []vmodels.MaterialSelection
	if group, color := c.Query("group"), c.Query("color"); group != "" && color != "" {
		selections = append(selections, vmodels.MaterialSelection{Group: group, Color: color})
	}

	body, err := h.visualizer.Scene(ctx, calc, selections)
	if err != nil {
		var upstream *service.UpstreamError
		if errors.As(err, &upstream) {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(upstream.Status).Send(upstream.Body)
		}
		log.Printf("[ACCOUNT] scene for %s: %v", calc.ID, err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "visualizer unavailable"})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// Export выгружает расчет: ?format=xlsx|csv|txt|pdf, по умолчанию xlsx.
func (h *CalculationHandler) Export(c fiber.Ctx) error {
	calc, err := h.repo.GetCalculation(context.Background(), currentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	exp, err := h.exports.Calculation(calc, c.Query("format", service.FormatXLSX))
	if err != nil {
		return writeError(c, err)
	}
	return sendExport(c, h.storage, exp)
}

func sendExport(c fiber.Ctx, storage *service.ExportStorage, exp *service.Export) error {
	if _, err := storage.Save(currentUser(c), exp.Filename, exp.Data); err != nil {
		log.Printf("[ACCOUNT] save export %s: %v", exp.Filename, err)
	}

	c.Set(fiber.HeaderContentType, exp.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(exp.Filename)))
	return c.Send(exp.Data)
}
