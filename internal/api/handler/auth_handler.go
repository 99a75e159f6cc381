package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dronework/marketplace-api/internal/api/metrics"
	"github.com/dronework/marketplace-api/internal/api/middleware"
	"github.com/dronework/marketplace-api/internal/core/domain"
	"github.com/dronework/marketplace-api/internal/core/ports"
)

const bearerTokenType = "bearer"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup registers a new user and returns its first token pair.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration credentials"
// @Success      201   {object}  authResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	user, pair, err := h.authService.Signup(c.Request().Context(), c.RealIP(), req.Email, req.Password)
	if err != nil {
		return err
	}
	metrics.SignupsTotal.Inc()

	return c.JSON(http.StatusCreated, authResponse{
		User: user,
		tokenResponse: tokenResponse{
			AccessToken:  pair.Access,
			RefreshToken: pair.Refresh,
			TokenType:    bearerTokenType,
		},
	})
}

// Signin authenticates credentials and returns a fresh token pair.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		// Malformed signin input reads the same as bad credentials so the
		// endpoint cannot be used to probe address validity.
		return domain.ErrInvalidCredentials
	}

	user, pair, err := h.authService.Signin(c.Request().Context(), c.RealIP(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.SigninsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}
	metrics.SigninsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, authResponse{
		User: user,
		tokenResponse: tokenResponse{
			AccessToken:  pair.Access,
			RefreshToken: pair.Refresh,
			TokenType:    bearerTokenType,
		},
	})
}

// Refresh rotates a refresh token into a new access/refresh pair.
//
// @Summary      Rotate tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.RefreshesTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    bearerTokenType,
	})
}

// Signout deactivates the caller's session and revokes the presented
// access token. Safe to repeat.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  detailResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/signout [post]
func (h *AuthHandler) Signout(c echo.Context) error {
	tokenString, err := middleware.BearerToken(c)
	if err != nil {
		return err
	}

	if err := h.authService.Signout(c.Request().Context(), tokenString); err != nil {
		return err
	}
	metrics.SignoutsTotal.Inc()

	return c.JSON(http.StatusOK, detailResponse{Detail: "signed out"})
}
