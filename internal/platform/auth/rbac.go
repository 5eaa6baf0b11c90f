package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/suryacity/hms/internal/platform/apperr"
)

const (
	RoleAdmin     = "admin"
	RoleReception = "reception"
	RoleBilling   = "billing"
)

// Allowed is the authorization policy: admin passes every gate, everyone
// else must hold one of the listed roles.
func Allowed(role string, allowed ...string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// RequireRole guards a route with Allowed.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c)
			if role == "" {
				return apperr.Unauthorizedf("not authenticated")
			}
			if !Allowed(role, roles...) {
				return apperr.Forbiddenf("role %q is not permitted", role)
			}
			return next(c)
		}
	}
}
