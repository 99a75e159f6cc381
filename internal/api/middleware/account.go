package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dronework/marketplace-api/internal/api/metrics"
	"github.com/dronework/marketplace-api/internal/core/ports"
)

// HeaderAccountID selects the account context for account-scoped endpoints.
const HeaderAccountID = "x-account-id"

// AccountContext authenticates the bearer token and resolves the
// x-account-id header to an account the user provably owns. It subsumes
// Auth: routes using it get user, claims and account in the context.
func AccountContext(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := BearerToken(c)
			if err != nil {
				metrics.AuthorizeTotal.WithLabelValues("denied").Inc()
				return err
			}

			raw := c.Request().Header.Get(HeaderAccountID)
			if raw == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing x-account-id header")
			}
			accountID, err := uuid.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "x-account-id must be a valid UUID")
			}

			user, account, err := authService.AuthenticatedAccount(c.Request().Context(), tokenString, accountID)
			if err != nil {
				metrics.AuthorizeTotal.WithLabelValues("denied").Inc()
				return err
			}
			metrics.AuthorizeTotal.WithLabelValues("allowed").Inc()

			c.Set(ContextUser, user)
			c.Set(ContextAccount, account)
			return next(c)
		}
	}
}
