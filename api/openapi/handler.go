// Package openapi configures the OpenAPI 3.1 document generated by Huma and
// serves a Swagger UI for it.
package openapi

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/labstack/echo/v4"
)

// SpecPath is where Huma serves the generated document.
const SpecPath = "/openapi"

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>cardsmith API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "` + SpecPath + `.json",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`

// Config returns the Huma configuration for the cardsmith API.
func Config(version string) huma.Config {
	cfg := huma.DefaultConfig("cardsmith API", version)
	cfg.OpenAPIPath = SpecPath
	cfg.Info.Description = "Generates marketplace product cards (title, short description, " +
		"bullets) with a local LLM and keeps a per-user generation history."
	cfg.Tags = []*huma.Tag{
		{Name: "generate", Description: "Card generation"},
		{Name: "history", Description: "Stored generations and export"},
		{Name: "catalog", Description: "Platform profiles and category presets"},
		{Name: "stats", Description: "Usage statistics"},
	}
	return cfg
}

// RegisterRoutes adds the Swagger UI routes to the Echo instance.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/swagger/index.html", serveUI)
	e.GET("/swagger", redirectToUI)
	e.GET("/swagger/", redirectToUI)
}

func serveUI(c echo.Context) error {
	return c.HTML(http.StatusOK, swaggerUIHTML)
}

func redirectToUI(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
}
