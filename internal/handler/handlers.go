// Package handler is the first layer after the router.
//
// It binds and validates requests using the validation package,
// calls the service layer and writes the response. Failures are
// returned to the global error handler unchanged.
package handler

import (
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Person  *PersonHandler
	Info    *InfoHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s, services.Person),
		OpenAPI: NewOpenAPIHandler(s),
		Person:  NewPersonHandler(s, services.Person),
		Info:    NewInfoHandler(s, services.Person),
	}
}
