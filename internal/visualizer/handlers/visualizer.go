package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"stroycalc/internal/visualizer/layout"
	"stroycalc/internal/visualizer/mapper"
	"stroycalc/internal/visualizer/models"
	"stroycalc/internal/visualizer/scene"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Visualizer Handler
// ============================================================

type VisualizerHandler struct {
	scene    scene.Config
	renderer *mapper.Renderer
}

func NewVisualizerHandler(cfg scene.Config) *VisualizerHandler {
	return &VisualizerHandler{
		scene:    cfg,
		renderer: mapper.NewRenderer(),
	}
}

type layoutRequest struct {
	CalculationType string                     `json:"calculation_type"`
	Inputs          map[string]any             `json:"inputs"`
	Result          *models.Result             `json:"result,omitempty"`
	Selections      []models.MaterialSelection `json:"selections,omitempty"`
}

type recolorRequest struct {
	Layout    models.Layout            `json:"layout"`
	Selection models.MaterialSelection `json:"selection"`
}

// Layout строит раскладку примитивов для типа расчета.
func (h *VisualizerHandler) Layout(c fiber.Ctx) error {
	req, err := decodeLayoutRequest(c)
	if err != nil {
		return err
	}

	in, err := parseInputs(req)
	if err != nil {
		return badRequest(c, err)
	}

	l, err := layout.Build(in)
	if err != nil {
		return badRequest(c, err)
	}

	log.Printf("[VISUALIZER] layout %s: %d primitives", l.Type, len(l.Primitives))
	return c.JSON(l)
}

// Scene строит раскладку и оборачивает ее камерой, светом и подписями.
func (h *VisualizerHandler) Scene(c fiber.Ctx) error {
	req, err := decodeLayoutRequest(c)
	if err != nil {
		return err
	}

	in, err := parseInputs(req)
	if err != nil {
		return badRequest(c, err)
	}

	l, err := layout.Build(in)
	if err != nil {
		return badRequest(c, err)
	}

	s, err := scene.Compose(l, in, req.Result, h.scene, req.Selections...)
	if err != nil {
		return badRequest(c, err)
	}

	log.Printf("[VISUALIZER] scene %s: %d primitives, %d labels", l.Type, len(l.Primitives), len(s.Labels))
	return c.JSON(s)
}

// Recolor перекрашивает группу в присланной раскладке.
func (h *VisualizerHandler) Recolor(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "body required"})
	}

	var req recolorRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Printf("[VISUALIZER] Decode error: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON payload"})
	}

	l, err := scene.Recolor(req.Layout, req.Selection)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(l)
}

// Render отдает SVG проекцию раскладки; view=front|plan.
func (h *VisualizerHandler) Render(c fiber.Ctx) error {
	req, err := decodeLayoutRequest(c)
	if err != nil {
		return err
	}

	in, err := parseInputs(req)
	if err != nil {
		return badRequest(c, err)
	}

	l, err := layout.Build(in)
	if err != nil {
		return badRequest(c, err)
	}

	svg, err := h.renderer.Render(l, mapper.View(c.Query("view", string(mapper.ViewFront))))
	if err != nil {
		return badRequest(c, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ============================================================
// Helpers
// ============================================================

// decodeLayoutRequest возвращает *fiber.Error, который отрисует ErrorHandler приложения.
func decodeLayoutRequest(c fiber.Ctx) (layoutRequest, error) {
	var req layoutRequest
	if len(c.Body()) == 0 {
		return req, fiber.NewError(http.StatusBadRequest, "body required")
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Printf("[VISUALIZER] Decode error: %v", err)
		return req, fiber.NewError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.CalculationType == "" {
		return req, fiber.NewError(http.StatusBadRequest, "calculation_type required")
	}
	return req, nil
}

func parseInputs(req layoutRequest) (layout.Inputs, error) {
	values, err := layout.Values(req.Inputs)
	if err != nil {
		return nil, err
	}
	return layout.Parse(req.CalculationType, values)
}

func badRequest(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, layout.ErrMissingField),
		errors.Is(err, layout.ErrInvalidInput),
		errors.Is(err, scene.ErrUnknownGroup),
		errors.Is(err, scene.ErrInvalidColor),
		errors.Is(err, mapper.ErrUnknownView):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[VISUALIZER] unexpected error: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
