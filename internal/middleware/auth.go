package middleware

import (
	"context"
	"net/http"
	"strings"

	"gymstack/internal/common"
	"gymstack/internal/token"

	"github.com/labstack/echo/v4"
)

// Authenticate validates the bearer token and loads the claims snapshot into
// the request context. The three failure modes get distinct messages so
// clients can tell a missing header from a bad one from a stale token.
func Authenticate(tokenMaker *token.Maker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 3)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			claims, err := tokenMaker.ParseToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			userID, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, common.RoleKey, claims.Role)
			ctx = context.WithValue(ctx, common.PermissionsKey, claims.Permissions)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// OptionalAuthenticate loads the claims snapshot when a bearer token is
// presented but lets anonymous requests through. A header that is present yet
// malformed or stale is still rejected. Used on routes like registration that
// serve both the public and logged-in admins.
func OptionalAuthenticate(tokenMaker *token.Maker) echo.MiddlewareFunc {
	authenticate := Authenticate(tokenMaker)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			return authenticate(next)(c)
		}
	}
}
