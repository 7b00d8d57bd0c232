package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger логирует запросы с тегом сервиса, например [ACCOUNT].
func Logger(service string) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] [" + strings.ToUpper(service) + "] ${status} - ${latency} ${method} ${path} | ${ip} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
