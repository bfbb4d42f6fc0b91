package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revokedSet map[string]bool

func (s revokedSet) RevokeAccessToken(_ context.Context, tokenID string, _ time.Duration) error {
	s[tokenID] = true
	return nil
}

func (s revokedSet) IsAccessTokenRevoked(_ context.Context, tokenID string) bool {
	return s[tokenID]
}

func newProtected(svc *JWTService, store TokenStoreInterface, active UserCheck) *echo.Echo {
	e := echo.New()
	g := e.Group("", Middleware(svc, store, active)...)
	g.GET("/me", func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]uint{"user_id": claims.UserID})
	})
	return e
}

func TestMiddleware(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	store := revokedSet{}

	token, err := svc.GenerateAccessToken(7, "a@example.com")
	require.NoError(t, err)
	gone, err := svc.GenerateAccessToken(8, "gone@example.com")
	require.NoError(t, err)
	revoked, err := svc.GenerateAccessToken(7, "a@example.com")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(revoked)
	require.NoError(t, err)
	require.NoError(t, store.RevokeAccessToken(context.Background(), claims.ID, time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "bearer scheme", header: "Bearer " + token, status: http.StatusOK},
		{name: "token scheme", header: "Token " + token, status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "revoked token", header: "Bearer " + revoked, status: http.StatusUnauthorized},
		{name: "inactive or deleted user", header: "Bearer " + gone, status: http.StatusUnauthorized},
	}

	active := func(_ context.Context, userID uint) bool { return userID == 7 }
	e := newProtected(svc, store, active)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMiddleware_NilUserCheck(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, err := svc.GenerateAccessToken(8, "b@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	newProtected(svc, revokedSet{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":8}`, rec.Body.String())
}
