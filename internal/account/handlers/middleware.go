package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"stroycalc/internal/account/repository"
	"stroycalc/internal/account/service"
	"stroycalc/internal/calculator"
	"stroycalc/internal/visualizer/layout"

	"github.com/gofiber/fiber/v3"
)

const userIDKey = "user_id"

// RequireAuth проверяет Bearer access токен и кладет id пользователя в locals.
func RequireAuth(tokens *service.TokenIssuer) fiber.Handler {
	return func(c fiber.Ctx) error {
		auth := c.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		userID, err := tokens.ParseAccess(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

func currentUser(c fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}

// writeError переводит ошибки пакетов в http статусы.
func writeError(c fiber.Ctx, err error) error {
	status := http.StatusBadRequest
	msg := err.Error()

	switch {
	case errors.Is(err, repository.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "invalid token"
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrUnknownFormat),
		errors.Is(err, calculator.ErrUnknownCategory),
		errors.Is(err, calculator.ErrUnknownType),
		errors.Is(err, calculator.ErrMissingFields),
		errors.Is(err, calculator.ErrInvalidParam),
		errors.Is(err, layout.ErrInvalidInput):
	default:
		log.Printf("[ACCOUNT] %v", err)
		status, msg = http.StatusInternalServerError, "internal error"
	}

	return c.Status(status).JSON(fiber.Map{"error": msg})
}
