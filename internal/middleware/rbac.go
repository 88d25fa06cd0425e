package middleware

import (
	"net/http"

	"gymstack/internal/common"
	"gymstack/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireAdmin allows only users whose type name is "admin". The name decides
// admin-ness; the permission flags only gate the view routes.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetRoleFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
			}
			if role != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// RequirePermission gates a route on one flag of the claims bundle. The
// bundle was captured at login; edits to a user type apply at next login.
func RequirePermission(selector func(models.PermissionBundle) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			perms, ok := common.GetPermissionsFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
			}
			if !selector(perms) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}
