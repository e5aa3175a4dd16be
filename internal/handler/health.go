package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/phonebook/internal/middleware"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/service"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the service and its record store are reachable.
type HealthHandler struct {
	Handler
	personService *service.PersonService
}

func NewHealthHandler(s *server.Server, personService *service.PersonService) *HealthHandler {
	return &HealthHandler{
		Handler:       NewHandler(s),
		personService: personService,
	}
}

// CheckHealth pings the record store and returns 200 with a report, or
// 503 when the ping fails.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	cfg := h.server.Config
	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": cfg.Primary.Env,
		"checks":      checks,
	}

	if cfg.Observability != nil && !cfg.Observability.HealthChecks.Enabled {
		return c.JSON(http.StatusOK, response)
	}

	timeout := 5 * time.Second
	if cfg.Observability != nil {
		timeout = cfg.Observability.HealthChecks.Timeout
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	storeStart := time.Now()
	if err := h.personService.Ping(ctx); err != nil {
		checks["store"] = map[string]interface{}{
			"backend":       cfg.Store.Backend,
			"status":        "unhealthy",
			"response_time": time.Since(storeStart).String(),
			"error":         err.Error(),
		}
		response["status"] = "unhealthy"

		logger.Error().
			Err(err).
			Str("store", cfg.Store.Backend).
			Dur("response_time", time.Since(storeStart)).
			Msg("store health check failed")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":        "store",
					"store_backend":     cfg.Store.Backend,
					"operation":         "health_check",
					"error_type":        "store_unhealthy",
					"response_time_ms":  time.Since(storeStart).Milliseconds(),
					"total_duration_ms": time.Since(start).Milliseconds(),
					"error_message":     err.Error(),
				},
			)
		}

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	checks["store"] = map[string]interface{}{
		"backend":       cfg.Store.Backend,
		"status":        "healthy",
		"response_time": time.Since(storeStart).String(),
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
