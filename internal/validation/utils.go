package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// MessageMalformattedJSON is sent when the request body cannot be bound.
const MessageMalformattedJSON = "malformatted json"

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the request struct from path params, query and body.
//     A body with an unsupported content type is treated as absent.
//  2. payload.Validate() applies validation rules.
//  3. *errs.ValidationFailed is returned unchanged so the classifier can send its
//     reason; struct tag failures become a 400 *errs.HTTPError.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &echoErr) && echoErr.Code == http.StatusUnsupportedMediaType:
		case errors.As(err, &echoErr) && echoErr.Code != http.StatusBadRequest:
			return errs.NewHTTPError(echoErr.Code, "")
		default:
			return errs.NewBadRequestError(MessageMalformattedJSON, nil)
		}
	}

	if err := payload.Validate(); err != nil {
		if errs.IsValidationFailed(err) {
			return err
		}
		return errs.NewBadRequestError(extractValidationError(err), nil)
	}

	return nil
}

// extractValidationError turns validator.ValidationErrors into a single
// message such as "id is required".
func extractValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		var msg string

		switch fieldErr.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if fieldErr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fieldErr.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fieldErr.Param())
			}

		case "max":
			if fieldErr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fieldErr.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fieldErr.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fieldErr.Param())

		default:
			if fieldErr.Param() != "" {
				msg = fmt.Sprintf("%s:%s", fieldErr.Tag(), fieldErr.Param())
			} else {
				msg = fieldErr.Tag()
			}
		}

		messages = append(messages, field+" "+msg)
	}

	return strings.Join(messages, ", ")
}
