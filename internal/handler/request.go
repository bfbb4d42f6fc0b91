package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"recipebox/internal/auth"
	"recipebox/internal/errors"
	"recipebox/internal/repository"
)

// fail converts a domain error into the echo error the HTTP error handler renders.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bind decodes and validates the request into req.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(req); err != nil {
		return fail(fieldErrors(err))
	}
	return nil
}

func fieldErrors(err error) error {
	var ve validator.ValidationErrors
	if !stderrors.As(err, &ve) {
		return errors.NewValidationError("non_field_errors", err.Error())
	}

	verr := &errors.ValidationError{}
	for _, fe := range ve {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// owner returns the authenticated caller as a query scope.
func owner(c echo.Context) (repository.Owner, error) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return repository.Owner{}, unauthorized()
	}
	return repository.Owner{UserID: claims.UserID}, nil
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "authentication credentials were not provided",
		Code:  "UNAUTHORIZED",
	})
}

// pathID parses the :id route parameter. Malformed ids read as not found.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, fail(errors.ErrNotFound)
	}
	return uint(id), nil
}

// parseIDs parses a comma separated list of integer ids. An empty value
// means the filter is not set and yields nil.
func parseIDs(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(p, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errors.ErrInvalidFilter, p)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// parseFlag reads a 0/1 style boolean query parameter.
func parseFlag(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %q", errors.ErrInvalidFilter, raw)
	}
	return v, nil
}
