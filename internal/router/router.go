// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps each route of the
// phonebook API to its handler.
package router

import (
	"net/http"
	"os"

	"github.com/deppfellow/phonebook/internal/handler"
	"github.com/deppfellow/phonebook/internal/middleware"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance serving the API, the info page, the
// system routes and, when present, the front-end bundle.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.CaptureBody(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerPersonRoutes(router, h)
	registerStaticRoutes(router, s)

	return router
}

func registerPersonRoutes(r *echo.Echo, h *handler.Handlers) {
	ph := h.Person

	r.GET("/info", handler.HandleHTML(h.Info.Handler, h.Info.GetInfo, http.StatusOK, handler.Request[handler.InfoRequest]))

	persons := r.Group("/api/persons")
	persons.GET("", handler.Handle(ph.Handler, ph.ListPersons, http.StatusOK, handler.Request[handler.ListPersonsRequest]))
	persons.POST("", handler.Handle(ph.Handler, ph.CreatePerson, http.StatusOK, handler.Request[handler.CreatePersonRequest]))
	persons.GET("/:id", handler.Handle(ph.Handler, ph.GetPerson, http.StatusOK, handler.Request[handler.PersonIDRequest]))
	persons.PUT("/:id", handler.Handle(ph.Handler, ph.UpdatePerson, http.StatusOK, handler.Request[handler.UpdatePersonRequest]))
	persons.DELETE("/:id", handler.HandleNoContent(ph.Handler, ph.DeletePerson, http.StatusNoContent, handler.Request[handler.PersonIDRequest]))
}

// registerStaticRoutes serves the front-end bundle at "/" when the
// configured directory exists.
func registerStaticRoutes(r *echo.Echo, s *server.Server) {
	dir := s.Config.Server.StaticDir
	if dir == "" {
		return
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		s.Logger.Debug().Str("dir", dir).Msg("static directory not found, skipping")
		return
	}

	r.Static("/", dir)
}
