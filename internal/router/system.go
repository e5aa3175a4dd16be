package router

import (
	"github.com/deppfellow/phonebook/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the phonebook API.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// openapi.json and the docs UI assets.
	r.Static("/static", handler.OpenAPIDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
