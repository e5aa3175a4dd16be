package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newGlobal() *GlobalMiddlewares {
	logger := zerolog.Nop()
	return NewGlobalMiddlewares(&server.Server{Config: config.DefaultConfig(), Logger: &logger})
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ClassifyError(echo.ErrNotFound).Status)
	assert.True(t, ClassifyError(echo.ErrNotFound).Bodiless)
	assert.Equal(t, http.StatusMethodNotAllowed, ClassifyError(echo.ErrMethodNotAllowed).Status)
	assert.Equal(t, http.StatusBadRequest, ClassifyError(errs.ErrInvalidIdentifier).Status)
	assert.Equal(t, http.StatusInternalServerError, ClassifyError(errors.New("boom")).Status)
}

func TestGlobalErrorHandler(t *testing.T) {
	global := newGlobal()
	e := echo.New()

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{name: "validation", err: errs.NewValidationFailed(errs.ReasonMissingFields), status: http.StatusBadRequest, body: `{"error":"person requires name and number"}`},
		{name: "malformed id", err: errs.ErrInvalidIdentifier, status: http.StatusBadRequest, body: `{"error":"malformatted id"}`},
		{name: "not found", err: errs.ErrNotFound, status: http.StatusNotFound},
		{name: "route not found", err: echo.ErrNotFound, status: http.StatusNotFound},
		{name: "unclassified", err: errors.New("socket closed"), status: http.StatusInternalServerError, body: `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body == "" {
				assert.Empty(t, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestTruncateBody(t *testing.T) {
	assert.Equal(t, `{"name":"Ada"}`, truncateBody([]byte(`{"name":"Ada"}`)))

	long := strings.Repeat("é", maxLoggedBody)
	truncated := truncateBody([]byte(long))
	assert.True(t, strings.HasSuffix(truncated, "..."))
	assert.LessOrEqual(t, len(truncated), maxLoggedBody+3)
}
