package proxy

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Prefix - внешний префикс API шлюза.
const Prefix = "/api/v1"

var forwardHeaders = []string{"Content-Type", "Accept", "Authorization"}

// заголовки соединения не копируются в ответ
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Content-Length":    true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
}

// ============================================================
// Proxy Handler
// ============================================================

type Proxy struct {
	client  *http.Client
	timeout time.Duration
}

func New(timeout time.Duration) *Proxy {
	return &Proxy{
		client:  &http.Client{},
		timeout: timeout,
	}
}

// To проксирует запрос в сервис base: путь без /api/v1 дописывается к
// base+upstreamPrefix, query сохраняется.
func (p *Proxy) To(base, upstreamPrefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return p.Forward(c, Target(base, upstreamPrefix, c.Path(), string(c.Request().URI().QueryString())))
	}
}

// Target собирает адрес апстрима.
func Target(base, upstreamPrefix, path, query string) string {
	target := strings.TrimRight(base, "/") + upstreamPrefix + strings.TrimPrefix(path, Prefix)
	if query != "" {
		target += "?" + query
	}
	return target
}

// Forward проксирует запрос по переданному URL.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	for _, h := range forwardHeaders {
		if v := c.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[PROXY] %s %s: %v", c.Method(), targetURL, err)
		if ctx.Err() == context.DeadlineExceeded {
			return c.Status(http.StatusGatewayTimeout).JSON(fiber.Map{"error": "upstream timeout"})
		}
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 && !hopHeaders[key] {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
