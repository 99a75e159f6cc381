package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dronework/marketplace-api/internal/api/middleware"
	"github.com/dronework/marketplace-api/internal/core/domain"
)

// ctxUser extracts the authenticated user injected by the Auth middleware.
// Its presence proves the middleware ran; a miss means the route was wired
// without auth and must not proceed.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUser).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return user, nil
}

// ctxAccount extracts the account context injected by the AccountContext
// middleware.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account, _ := c.Get(middleware.ContextAccount).(*domain.Account)
	if account == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing account context")
	}
	return account, nil
}
