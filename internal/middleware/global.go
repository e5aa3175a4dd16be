package middleware

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	// RequestBodyKey holds the captured request body for the request logger.
	RequestBodyKey = "request_body"

	maxLoggedBody = 1024
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo's CORS middleware with the configured origins.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// CaptureBody keeps the body of POST and PUT requests for the request logger.
func (global *GlobalMiddlewares) CaptureBody() echo.MiddlewareFunc {
	return middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			method := c.Request().Method
			return method != http.MethodPost && method != http.MethodPut
		},
		Handler: func(c echo.Context, reqBody, _ []byte) {
			c.Set(RequestBodyKey, truncateBody(reqBody))
		},
	})
}

func truncateBody(body []byte) string {
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
		for len(body) > 0 && !utf8.Valid(body) {
			body = body[:len(body)-1]
		}
		return string(body) + "..."
	}
	return string(body)
}

// RequestLogger writes one line per request with method, uri, status,
// latency and, for writes, the request body.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The error handler has not written the response yet when a handler
			// fails, so the final status is derived from the error.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = ClassifyError(v.Error).Status
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			if body, ok := c.Get(RequestBodyKey).(string); ok && body != "" {
				e = e.Str("body", body)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns Echo's panic recovery middleware.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// ClassifyError maps err to its HTTP outcome. Echo's own errors (unknown
// route, method not allowed, oversized body) keep their status; everything
// else goes through errs.Classify.
func ClassifyError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	if !errors.As(err, &httpErr) && errors.As(err, &echoErr) {
		message, _ := echoErr.Message.(string)
		return errs.NewHTTPError(echoErr.Code, message)
	}

	return errs.Classify(err)
}

// GlobalErrorHandler is the single place where errors become responses.
//
// 404 responses carry no body. Every other failure is sent as {"error": message};
// unclassified errors are logged with their stack and answered with a fixed 500.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	// Already answered, possibly by an inner middleware calling c.Error.
	if c.Response().Committed {
		return
	}

	httpErr := ClassifyError(err)

	logger := GetLogger(c)

	var e *zerolog.Event
	if httpErr.Status >= http.StatusInternalServerError {
		e = logger.Error().Stack()
	} else {
		e = logger.Warn()
	}

	e.
		Err(err).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if httpErr.Bodiless || c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	_ = c.JSON(httpErr.Status, httpErr)
}
