package handler

import (
	"fmt"
	"html"

	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/service"
	"github.com/labstack/echo/v4"
)

// InfoDateLayout renders the generation time like a browser's Date.toString().
const InfoDateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

type InfoHandler struct {
	Handler
	personService *service.PersonService
}

func NewInfoHandler(s *server.Server, personService *service.PersonService) *InfoHandler {
	return &InfoHandler{
		Handler:       NewHandler(s),
		personService: personService,
	}
}

// GetInfo renders the phonebook summary page.
func (h *InfoHandler) GetInfo(c echo.Context, _ *InfoRequest) (string, error) {
	info, err := h.personService.Info(c.Request().Context())
	if err != nil {
		return "", err
	}
	return RenderInfo(info), nil
}

// RenderInfo returns the summary HTML fragment for info.
func RenderInfo(info *model.PhonebookInfo) string {
	return fmt.Sprintf(
		"<div><p>Phonebook has info for %d people</p><p>%s</p></div>",
		info.Count,
		html.EscapeString(info.GeneratedAt.Format(InfoDateLayout)),
	)
}
