package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"stroycalc/internal/account/models"
	"stroycalc/internal/account/repository"
	"stroycalc/internal/account/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Auth Handler
// ============================================================

type AuthHandler struct {
	repo   *repository.Repository
	tokens *service.TokenIssuer
}

func NewAuthHandler(repo *repository.Repository, tokens *service.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		repo:   repo,
		tokens: tokens,
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type authResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

type profileResponse struct {
	*models.User
	Calculations []models.Calculation `json:"calculations"`
}

// Register создает пользователя и сразу выдает пару токенов.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	log.Printf("[ACCOUNT] Register request")

	var req registerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "valid email required"})
	}
	if req.Password != req.Password2 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "password fields didn't match"})
	}
	if err := service.ValidatePassword(req.Password); err != nil {
		return writeError(c, err)
	}

	hash, err := service.HashPassword(req.Password)
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.repo.CreateUser(context.Background(), req.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "email already exists"})
		}
		return writeError(c, err)
	}

	pair, err := h.tokens.Issue(user.ID)
	if err != nil {
		return writeError(c, err)
	}

	log.Printf("[ACCOUNT] User created: %s", user.ID)
	return c.Status(http.StatusCreated).JSON(authResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		UserID:  user.ID,
		Email:   user.Email,
	})
}

// Login выдает пару токенов по email/password.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	user, err := h.repo.GetUserByEmail(context.Background(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !service.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid credentials"})
	}

	pair, err := h.tokens.Issue(user.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(authResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		UserID:  user.ID,
		Email:   user.Email,
	})
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req refreshRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Refresh == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "refresh token required"})
	}

	access, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"access": access})
}

// Logout отзывает refresh сессию.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	var req refreshRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Refresh == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "refresh token required"})
	}

	if err := h.tokens.Revoke(req.Refresh); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"status": "logged out"})
}

// Me возвращает профиль вместе с расчетами пользователя.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	ctx := context.Background()
	user, err := h.repo.GetUserByID(ctx, currentUser(c))
	if err != nil {
		return writeError(c, err)
	}

	calcs, err := h.repo.ListCalculations(ctx, user.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(profileResponse{User: user, Calculations: calcs})
}
