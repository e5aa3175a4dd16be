package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Classify(nil))
	})

	t.Run("invalid identifier", func(t *testing.T) {
		httpErr := Classify(fmt.Errorf("getting person: %w", ErrInvalidIdentifier))
		require.NotNil(t, httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, MessageMalformattedID, httpErr.Message)
		assert.False(t, httpErr.Bodiless)
	})

	t.Run("validation failure keeps its reason", func(t *testing.T) {
		httpErr := Classify(pkgerrors.WithMessage(NewValidationFailed(ReasonDuplicateName), "creating person"))
		require.NotNil(t, httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, ReasonDuplicateName, httpErr.Message)
	})

	t.Run("not found has no body", func(t *testing.T) {
		httpErr := Classify(pkgerrors.Wrap(ErrNotFound, "getting person"))
		require.NotNil(t, httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.True(t, httpErr.Bodiless)
	})

	t.Run("http errors pass through", func(t *testing.T) {
		original := NewBadRequestError("malformatted json", nil)
		assert.Same(t, original, Classify(original))
	})

	t.Run("anything else is a fixed 500", func(t *testing.T) {
		httpErr := Classify(errors.New("dial tcp: connection refused"))
		require.NotNil(t, httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, "internal server error", httpErr.Message)
	})
}

func TestNewHTTPError(t *testing.T) {
	httpErr := NewHTTPError(http.StatusMethodNotAllowed, "")
	assert.Equal(t, "Method Not Allowed", httpErr.Message)
	assert.Equal(t, "METHOD_NOT_ALLOWED", httpErr.Code)
	assert.False(t, httpErr.Bodiless)

	assert.True(t, NewHTTPError(http.StatusNotFound, "").Bodiless)
}

func TestIsValidationFailed(t *testing.T) {
	assert.True(t, IsValidationFailed(fmt.Errorf("wrapped: %w", NewValidationFailed(ReasonMissingFields))))
	assert.False(t, IsValidationFailed(ErrNotFound))
}
