package handler

import (
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/service"
	"github.com/labstack/echo/v4"
)

// PersonHandler serves the /api/persons resource. Every method performs
// exactly one service call; failures go to the global error handler.
type PersonHandler struct {
	Handler
	personService *service.PersonService
}

func NewPersonHandler(s *server.Server, personService *service.PersonService) *PersonHandler {
	return &PersonHandler{
		Handler:       NewHandler(s),
		personService: personService,
	}
}

func (h *PersonHandler) ListPersons(c echo.Context, _ *ListPersonsRequest) ([]model.Person, error) {
	return h.personService.List(c.Request().Context())
}

func (h *PersonHandler) GetPerson(c echo.Context, req *PersonIDRequest) (*model.Person, error) {
	return h.personService.Get(c.Request().Context(), req.ID)
}

func (h *PersonHandler) CreatePerson(c echo.Context, req *CreatePersonRequest) (*model.Person, error) {
	return h.personService.Create(c.Request().Context(), req.Fields())
}

func (h *PersonHandler) UpdatePerson(c echo.Context, req *UpdatePersonRequest) (*model.Person, error) {
	return h.personService.Replace(c.Request().Context(), req.ID, req.Fields())
}

func (h *PersonHandler) DeletePerson(c echo.Context, req *PersonIDRequest) error {
	return h.personService.Delete(c.Request().Context(), req.ID)
}
