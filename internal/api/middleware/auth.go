package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dronework/marketplace-api/internal/api/metrics"
	"github.com/dronework/marketplace-api/internal/core/ports"
)

// Context keys populated by the middleware in this package.
const (
	ContextUser    = "auth_user"
	ContextClaims  = "auth_claims"
	ContextAccount = "auth_account"
)

// BearerToken extracts the token from the Authorization header. A missing
// header, a non-Bearer scheme or a missing token all yield 401.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

// Auth runs the full authorization pipeline on the bearer access token and
// injects the authenticated user and verified claims into the context.
func Auth(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := BearerToken(c)
			if err != nil {
				metrics.AuthorizeTotal.WithLabelValues("denied").Inc()
				return err
			}

			user, claims, err := authService.Authorize(c.Request().Context(), tokenString)
			if err != nil {
				metrics.AuthorizeTotal.WithLabelValues("denied").Inc()
				return err
			}
			metrics.AuthorizeTotal.WithLabelValues("allowed").Inc()

			c.Set(ContextUser, user)
			c.Set(ContextClaims, claims)
			return next(c)
		}
	}
}
