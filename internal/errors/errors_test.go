package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		field  string
	}{
		{name: "not found", err: ErrNotFound, status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "wrapped not found", err: fmt.Errorf("get recipe: %w", ErrNotFound), status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "email required", err: ErrEmailRequired, status: http.StatusBadRequest, code: "VALIDATION_ERROR", field: "email"},
		{name: "email taken", err: ErrEmailTaken, status: http.StatusBadRequest, code: "VALIDATION_ERROR", field: "email"},
		{name: "bad credentials", err: ErrInvalidCredentials, status: http.StatusBadRequest, code: "INVALID_CREDENTIALS", field: "non_field_errors"},
		{name: "invalid image", err: ErrInvalidImage, status: http.StatusBadRequest, code: "INVALID_IMAGE", field: "image"},
		{name: "invalid filter", err: ErrInvalidFilter, status: http.StatusBadRequest, code: "INVALID_FILTER"},
		{name: "validation", err: NewValidationError("title", "required"), status: http.StatusBadRequest, code: "VALIDATION_ERROR", field: "title"},
		{name: "unknown", err: fmt.Errorf("disk on fire"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
			if tt.field != "" {
				assert.Contains(t, httpErr.ToErrorResponse().Fields, tt.field)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	var verr *ValidationError
	assert.True(t, verr.Empty())

	verr = NewValidationError("title", "required").Add("price", "too many digits").Add("title", "too long")
	assert.False(t, verr.Empty())
	assert.Equal(t, []string{"required", "too long"}, verr.Fields["title"])
	assert.Equal(t, "validation failed: price: too many digits, title: required; too long", verr.Error())
}
