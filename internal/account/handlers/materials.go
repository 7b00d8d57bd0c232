package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"stroycalc/internal/account/models"
	"stroycalc/internal/account/repository"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Material Handler
// ============================================================

type MaterialHandler struct {
	repo *repository.Repository
}

func NewMaterialHandler(repo *repository.Repository) *MaterialHandler {
	return &MaterialHandler{repo: repo}
}

type materialRequest struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
}

func (h *MaterialHandler) List(c fiber.Ctx) error {
	items, err := h.repo.ListMaterials(context.Background(), currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

func (h *MaterialHandler) Create(c fiber.Ctx) error {
	var req materialRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "quantity must be a non-negative number"})
	}
	if !models.ValidUnit(req.Unit) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "unit must be one of: " + strings.Join(models.Units, ", "),
		})
	}

	m, err := h.repo.CreateMaterial(context.Background(), currentUser(c), req.Name, *req.Quantity, req.Unit)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(m)
}

func (h *MaterialHandler) Delete(c fiber.Ctx) error {
	if err := h.repo.DeleteMaterial(context.Background(), currentUser(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
