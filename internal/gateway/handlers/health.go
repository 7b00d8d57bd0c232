package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe опрашивает /health/live сервисов за шлюзом.
// Если хоть один недоступен, отвечает 503.
func ReadinessProbe(upstreams map[string]string, timeout time.Duration) fiber.Handler {
	client := &http.Client{Timeout: timeout}

	return func(c fiber.Ctx) error {
		names := make([]string, 0, len(upstreams))
		for name := range upstreams {
			names = append(names, name)
		}
		sort.Strings(names)

		services := fiber.Map{}
		ready := true
		for _, name := range names {
			status := "up"
			if err := ping(client, upstreams[name]+"/health/live"); err != nil {
				status = "down"
				ready = false
			}
			services[name] = status
		}

		if !ready {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "services": services})
		}
		return c.JSON(fiber.Map{"status": "ready", "services": services})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}

func ping(client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fiber.NewError(resp.StatusCode, "upstream not alive")
	}
	return nil
}
