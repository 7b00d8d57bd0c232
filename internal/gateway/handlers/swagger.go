package handlers

import (
	_ "embed"
	"fmt"
	"html"

	"github.com/gofiber/fiber/v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

// ============================================================
// API Docs
// ============================================================

const docsPage = `<!doctype html>
<html lang="ru">
<head>
  <meta charset="utf-8">
  <title>StroyCalc API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      tryItOutEnabled: true,
      persistAuthorization: true,
    });
  };
</script>
</body>
</html>`

// SwaggerSpec отдаёт встроенное описание API калькулятора.
func SwaggerSpec(c fiber.Ctx) error {
	c.Type("yaml")
	return c.Send(openAPISpec)
}

// SwaggerUI строит страницу документации, которая читает описание по specURL.
// Токен из Authorize сохраняется между перезагрузками страницы.
func SwaggerUI(specURL string) fiber.Handler {
	page := fmt.Sprintf(docsPage, html.EscapeString(specURL))
	return func(c fiber.Ctx) error {
		c.Type("html")
		return c.SendString(page)
	}
}
