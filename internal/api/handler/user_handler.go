package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dronework/marketplace-api/internal/core/ports"
)

type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Sessions lists the authenticated user's active device sessions.
//
// @Summary      Active sessions
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Session
// @Failure      401  {object}  errorResponse
// @Router       /users/me/sessions [get]
func (h *UserHandler) Sessions(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	sessions, err := h.authService.ListSessions(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessions)
}
