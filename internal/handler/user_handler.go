package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"recipebox/internal/auth"
	"recipebox/internal/errors"
	"recipebox/internal/service"
)

// UserHandler serves registration, token and profile endpoints.
type UserHandler struct {
	users service.UserService
	auth  service.AuthService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(users service.UserService, auth service.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// CreateUserRequest represents a registration request.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=5"`
}

// UpdateUserRequest represents a profile update. PUT requires email and
// name; PATCH accepts any subset.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5"`
}

// TokenRequest represents a token request.
type TokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateUser godoc
// @Summary Register a new user
// @Tags user
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "Registration data"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/create/ [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.CreateUser(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// CreateToken godoc
// @Summary Exchange email and password for an access token
// @Tags user
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/token/ [post]
func (h *UserHandler) CreateToken(c echo.Context) error {
	var req TokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, _, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/me/ [get]
func (h *UserHandler) Me(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetProfile(c.Request().Context(), o.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMe godoc
// @Summary Update the authenticated user
// @Description PUT replaces email and name; PATCH changes only the fields sent. A new password is hashed.
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateUserRequest true "Profile fields"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/me/ [put]
// @Router /user/me/ [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if c.Request().Method == http.MethodPut {
		verr := &errors.ValidationError{}
		if req.Email == nil {
			verr.Add("email", "this field is required")
		}
		if req.Name == nil {
			verr.Add("name", "this field is required")
		}
		if !verr.Empty() {
			return fail(verr)
		}
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), o.UserID, service.ProfileUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteMe godoc
// @Summary Delete the authenticated user and everything they own
// @Tags user
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/me/ [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}

	if err := h.users.DeleteAccount(c.Request().Context(), o.UserID); err != nil {
		return fail(err)
	}
	claims, _ := auth.ClaimsFrom(c)
	_ = h.auth.Logout(c.Request().Context(), claims)
	return c.NoContent(http.StatusNoContent)
}

// Logout godoc
// @Summary Revoke the presented access token
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/logout/ [post]
func (h *UserHandler) Logout(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return unauthorized()
	}

	if err := h.auth.Logout(c.Request().Context(), claims); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}
