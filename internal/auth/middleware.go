package auth

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "recipebox/internal/errors"
)

const (
	tokenContextKey  = "user"
	claimsContextKey = "claims"
)

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
	Error: "authentication credentials were not provided or are invalid",
	Code:  "UNAUTHORIZED",
})

// UserCheck reports whether the account a token was issued to may still act.
type UserCheck func(ctx context.Context, userID uint) bool

// Middleware returns the chain that authenticates a request: a valid bearer
// token that has not been revoked and whose user passes active. Both
// "Bearer" and "Token" schemes are accepted. A nil active skips the user check.
func Middleware(jwtService *JWTService, store TokenStoreInterface, active UserCheck) []echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:  jwtService.Secret(),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,header:" + echo.HeaderAuthorization + ":Token ",
		ContextKey:  tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errUnauthorized
		},
	})

	notRevoked := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return errUnauthorized
			}
			claims, ok := token.Claims.(*Claims)
			if !ok || claims.UserID == 0 {
				return errUnauthorized
			}
			ctx := c.Request().Context()
			if store != nil && store.IsAccessTokenRevoked(ctx, claims.ID) {
				return errUnauthorized
			}
			if active != nil && !active(ctx, claims.UserID) {
				return errUnauthorized
			}
			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}

	return []echo.MiddlewareFunc{verify, notRevoked}
}

// ClaimsFrom returns the claims of the authenticated caller.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok
}
