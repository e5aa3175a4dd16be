package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/handler"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/service"
	"github.com/deppfellow/phonebook/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, time.March, 5, 10, 30, 0, 0, time.FixedZone("EET", 2*60*60))

func newTestRouter(t *testing.T, store repository.PersonStore) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	cfg := config.DefaultConfig()
	cfg.Server.StaticDir = ""

	s := &server.Server{Config: cfg, Logger: &logger}

	services, err := service.NewService(s, &repository.Repositories{Persons: store})
	require.NoError(t, err)
	services.Person.SetClock(func() time.Time { return fixedTime })

	return NewRouter(s, handler.NewHandlers(s, services))
}

func seededStore() repository.PersonStore {
	return repository.NewMemoryStore(validation.Policy{UniqueNames: true}, repository.DefaultSeed()...)
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPersonRoutes(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodGet, "/api/persons", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[
			{"id":"1","name":"Arto Hellas","number":"040-123456"},
			{"id":"2","name":"Ada Lovelace","number":"39-44-5323523"},
			{"id":"3","name":"Dan Abramov","number":"12-43-234345"},
			{"id":"4","name":"Mary Poppendieck","number":"39-23-6423122"}
		]`, rec.Body.String())
	})

	t.Run("empty list is an array", func(t *testing.T) {
		e := newTestRouter(t, repository.NewMemoryStore(validation.Policy{}))

		rec := do(t, e, http.MethodGet, "/api/persons", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("get", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodGet, "/api/persons/2", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":"2","name":"Ada Lovelace","number":"39-44-5323523"}`, rec.Body.String())
	})

	t.Run("get missing person has no body", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodGet, "/api/persons/999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("create", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodPost, "/api/persons", `{"name":"Grace Hopper","number":"555-0100"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":"5","name":"Grace Hopper","number":"555-0100"}`, rec.Body.String())

		rec = do(t, e, http.MethodGet, "/api/persons/5", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("create without number", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodPost, "/api/persons", `{"name":"Grace Hopper"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"person requires name and number"}`, rec.Body.String())
	})

	t.Run("create without a json body", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		req := httptest.NewRequest(http.MethodPost, "/api/persons", strings.NewReader("name=Grace"))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"person requires name and number"}`, rec.Body.String())
	})

	t.Run("create duplicate name", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodPost, "/api/persons", `{"name":"Arto Hellas","number":"1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"person with this name already exists"}`, rec.Body.String())

		rec = do(t, e, http.MethodGet, "/api/persons", "")
		assert.Equal(t, 4, strings.Count(rec.Body.String(), `"id"`))
	})

	t.Run("create trims names before the duplicate check", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodPost, "/api/persons", `{"name":"  Zed  ","number":" 040-1 "}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":"5","name":"Zed","number":"040-1"}`, rec.Body.String())

		rec = do(t, e, http.MethodPost, "/api/persons", `{"name":"Zed","number":"040-2"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"person with this name already exists"}`, rec.Body.String())
	})

	t.Run("create malformed json", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodPost, "/api/persons", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"malformatted json"}`, rec.Body.String())
	})

	t.Run("update", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodPut, "/api/persons/1", `{"name":"Arto Hellas","number":"040-999"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":"1","name":"Arto Hellas","number":"040-999"}`, rec.Body.String())
	})

	t.Run("update ignores body id", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodPut, "/api/persons/1", `{"id":"3","name":"Arto Hellas","number":"1"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":"1","name":"Arto Hellas","number":"1"}`, rec.Body.String())
	})

	t.Run("update missing person", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodPut, "/api/persons/999", `{"name":"Nobody","number":"1"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("update with missing fields", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodPut, "/api/persons/1", `{"number":"1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"person requires name and number"}`, rec.Body.String())
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		e := newTestRouter(t, seededStore())

		rec := do(t, e, http.MethodDelete, "/api/persons/1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = do(t, e, http.MethodGet, "/api/persons/1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do(t, e, http.MethodDelete, "/api/persons/1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestInfoRoute(t *testing.T) {
	e := newTestRouter(t, seededStore())

	rec := do(t, e, http.MethodGet, "/info", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Equal(t,
		"<div><p>Phonebook has info for 4 people</p><p>Tue Mar 05 2024 10:30:00 GMT+0200 (EET)</p></div>",
		rec.Body.String(),
	)

	do(t, e, http.MethodDelete, "/api/persons/1", "")

	rec = do(t, e, http.MethodGet, "/info", "")
	assert.Contains(t, rec.Body.String(), "Phonebook has info for 3 people")
}

func TestUnknownRoute(t *testing.T) {
	e := newTestRouter(t, seededStore())

	rec := do(t, e, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	e := newTestRouter(t, seededStore())

	rec := do(t, e, http.MethodGet, "/api/persons", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/persons", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

// failingStore returns err from every call.
type failingStore struct {
	err error
}

func (s failingStore) List(context.Context) ([]model.Person, error) { return nil, s.err }

func (s failingStore) Get(context.Context, string) (*model.Person, error) { return nil, s.err }

func (s failingStore) Create(context.Context, model.PersonFields) (*model.Person, error) {
	return nil, s.err
}

func (s failingStore) Replace(context.Context, string, model.PersonFields) (*model.Person, error) {
	return nil, s.err
}

func (s failingStore) Delete(context.Context, string) error { return s.err }

func (s failingStore) Ping(context.Context) error { return s.err }

func TestStoreFailures(t *testing.T) {
	t.Run("malformed id", func(t *testing.T) {
		e := newTestRouter(t, failingStore{err: errs.ErrInvalidIdentifier})

		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			rec := do(t, e, method, "/api/persons/zzz", "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"malformatted id"}`, rec.Body.String())
		}

		rec := do(t, e, http.MethodPut, "/api/persons/zzz", `{"name":"a","number":"1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"malformatted id"}`, rec.Body.String())
	})

	t.Run("unclassified failure", func(t *testing.T) {
		e := newTestRouter(t, failingStore{err: errors.New("connection reset by peer")})

		rec := do(t, e, http.MethodGet, "/api/persons", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

		rec = do(t, e, http.MethodGet, "/info", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("status reports the store outage", func(t *testing.T) {
		e := newTestRouter(t, failingStore{err: errors.New("no reachable servers")})

		rec := do(t, e, http.MethodGet, "/status", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"unhealthy"`)
	})
}

func TestStatusRoute(t *testing.T) {
	e := newTestRouter(t, seededStore())

	rec := do(t, e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"backend":"memory"`)
}
