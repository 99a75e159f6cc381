package handler

import (
	"github.com/dronework/marketplace-api/internal/core/domain"
)

// errorResponse documents the standard error envelope for swagger only;
// rendering happens in the centralized error handler.
type errorResponse struct {
	Detail string `json:"detail"`
}

// --- Request / Response types ---

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type signinRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type authResponse struct {
	User *domain.User `json:"user"`
	tokenResponse
}

type detailResponse struct {
	Detail string `json:"detail"`
}

type createAccountRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Kind        string `json:"kind"         validate:"required,oneof=EMPLOYER DRONER"`
}
