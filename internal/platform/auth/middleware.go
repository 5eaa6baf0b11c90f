package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/suryacity/hms/internal/platform/apperr"
)

const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
	RoleKey     = "user_role"
)

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTMiddleware validates HS256 bearer tokens and stashes the actor's
// identity on the request context.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return apperr.Unauthorizedf("missing authorization header")
			}
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return apperr.Unauthorizedf("authorization header must be a bearer token")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, apperr.Unauthorizedf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return apperr.Unauthorizedf("invalid token")
			}

			c.Set(UserIDKey, claims.Subject)
			c.Set(UsernameKey, claims.Username)
			c.Set(RoleKey, claims.Role)
			return next(c)
		}
	}
}

// DevAuthMiddleware grants every request admin access. Development only;
// config.Validate refuses to start production with it.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(UserIDKey, "dev-user")
			c.Set(UsernameKey, "dev")
			c.Set(RoleKey, RoleAdmin)
			return next(c)
		}
	}
}

func UserIDFromContext(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

func RoleFromContext(c echo.Context) string {
	role, _ := c.Get(RoleKey).(string)
	return role
}
