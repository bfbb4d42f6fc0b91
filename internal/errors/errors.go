package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a row does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrEmailRequired is returned when a user is created without an email.
	ErrEmailRequired = errors.New("email is required to create a new user")
	// ErrEmailTaken is returned when a user already exists with the email.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrInvalidCredentials is returned when email or password do not match an active user.
	ErrInvalidCredentials = errors.New("unable to authenticate user with given credentials")
	// ErrInvalidImage is returned when an upload is not a decodable image.
	ErrInvalidImage = errors.New("upload a valid image; the file you uploaded was either not an image or a corrupted image")
	// ErrImageTooLarge is returned when an upload exceeds the configured size.
	ErrImageTooLarge = errors.New("image exceeds the maximum upload size")
	// ErrInvalidFilter is returned when an id filter contains a non-numeric token.
	ErrInvalidFilter = errors.New("filter must be a comma separated list of integer ids")
)

// ValidationError carries field level messages for a rejected payload.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return (&ValidationError{}).Add(field, message)
}

// Add appends a message for field and returns the receiver.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string][]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_ERROR")
		httpErr.Fields = verr.Fields
		return httpErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrEmailTaken):
		return withField(NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR"), "email", err)
	case errors.Is(err, ErrInvalidCredentials):
		return withField(NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS"), "non_field_errors", err)
	case errors.Is(err, ErrInvalidImage), errors.Is(err, ErrImageTooLarge):
		return withField(NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_IMAGE"), "image", err)
	case errors.Is(err, ErrInvalidFilter):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_FILTER")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

func withField(e *HTTPError, field string, err error) *HTTPError {
	e.Fields = map[string][]string{field: {err.Error()}}
	return e
}
