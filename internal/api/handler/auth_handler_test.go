package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dronework/marketplace-api/internal/core/domain"
	"github.com/dronework/marketplace-api/internal/core/token"
)

type stubAuthService struct {
	signupFn       func(ctx context.Context, host, email, password string) (*domain.User, token.Pair, error)
	signinFn       func(ctx context.Context, host, email, password string) (*domain.User, token.Pair, error)
	refreshFn      func(ctx context.Context, refreshToken string) (token.Pair, error)
	signoutFn      func(ctx context.Context, accessToken string) error
	listSessionsFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
}

func (s *stubAuthService) Signup(ctx context.Context, host, email, password string) (*domain.User, token.Pair, error) {
	return s.signupFn(ctx, host, email, password)
}

func (s *stubAuthService) Signin(ctx context.Context, host, email, password string) (*domain.User, token.Pair, error) {
	return s.signinFn(ctx, host, email, password)
}

func (s *stubAuthService) Authorize(context.Context, string) (*domain.User, *token.Claims, error) {
	return nil, nil, errors.New("not implemented")
}

func (s *stubAuthService) AuthenticatedAccount(context.Context, string, uuid.UUID) (*domain.User, *domain.Account, error) {
	return nil, nil, errors.New("not implemented")
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Signout(ctx context.Context, accessToken string) error {
	return s.signoutFn(ctx, accessToken)
}

func (s *stubAuthService) ListSessions(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	return s.listSessionsFn(ctx, userID)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup(t *testing.T) {
	userID := uuid.New()
	stub := &stubAuthService{
		signupFn: func(_ context.Context, host, email, password string) (*domain.User, token.Pair, error) {
			if email != "a@b.co" || password != "pw12345678" {
				t.Fatalf("unexpected credentials: %s / %s", email, password)
			}
			user := &domain.User{ID: userID, Email: email, IsActive: true, CreatedAt: time.Now()}
			return user, token.Pair{Access: "access-token", Refresh: "refresh-token"}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/auth/signup",
		`{"email":"a@b.co","password":"pw12345678"}`)

	if err := NewAuthHandler(stub).Signup(c); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{`"a@b.co"`, `"is_active":true`, `"access-token"`, `"refresh-token"`, `"bearer"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("response missing %s: %s", want, body)
		}
	}
	if strings.Contains(body, "password") {
		t.Fatalf("response leaks password material: %s", body)
	}
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(context.Context, string, string, string) (*domain.User, token.Pair, error) {
			t.Fatalf("service should not run on invalid payload")
			return nil, token.Pair{}, nil
		},
	}
	h := NewAuthHandler(stub)

	cases := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email","password":"pw12345678"}`},
		{"short password", `{"email":"a@b.co","password":"short"}`},
		{"missing fields", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/auth/signup", tc.body)
			if err := h.Signup(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Signin(t *testing.T) {
	stub := &stubAuthService{
		signinFn: func(_ context.Context, host, email, password string) (*domain.User, token.Pair, error) {
			user := &domain.User{ID: uuid.New(), Email: email, IsActive: true}
			return user, token.Pair{Access: "a", Refresh: "r"}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/auth/signin",
		`{"email":"a@b.co","password":"pw12345678"}`)

	if err := NewAuthHandler(stub).Signin(c); err != nil {
		t.Fatalf("signin: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Signin_BadCredentials(t *testing.T) {
	stub := &stubAuthService{
		signinFn: func(context.Context, string, string, string) (*domain.User, token.Pair, error) {
			return nil, token.Pair{}, domain.ErrInvalidCredentials
		},
	}

	c, _ := newTestContext(t, http.MethodPost, "/auth/signin",
		`{"email":"a@b.co","password":"wrong-password"}`)

	if err := NewAuthHandler(stub).Signin(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Signin_MalformedInputReadsAsBadCredentials(t *testing.T) {
	// A syntactically invalid email must be indistinguishable from a wrong
	// password, so the endpoint cannot be used to probe address validity.
	stub := &stubAuthService{
		signinFn: func(context.Context, string, string, string) (*domain.User, token.Pair, error) {
			t.Fatalf("service should not run on invalid payload")
			return nil, token.Pair{}, nil
		},
	}

	c, _ := newTestContext(t, http.MethodPost, "/auth/signin",
		`{"email":"not-an-email","password":"pw12345678"}`)

	if err := NewAuthHandler(stub).Signin(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (token.Pair, error) {
			if refreshToken != "old-refresh" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return token.Pair{Access: "new-access", Refresh: "new-refresh"}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"old-refresh"}`)

	if err := NewAuthHandler(stub).Refresh(c); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "new-access") || !strings.Contains(body, "new-refresh") {
		t.Fatalf("rotated pair missing from response: %s", body)
	}
}

func TestAuthHandler_Refresh_RevokedToken(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(context.Context, string) (token.Pair, error) {
			return token.Pair{}, domain.ErrTokenRevoked
		},
	}

	c, _ := newTestContext(t, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"already-used"}`)

	if err := NewAuthHandler(stub).Refresh(c); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuthHandler_Signout(t *testing.T) {
	signedOut := ""
	stub := &stubAuthService{
		signoutFn: func(_ context.Context, accessToken string) error {
			signedOut = accessToken
			return nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/auth/signout", "")
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer the-access-token")

	if err := NewAuthHandler(stub).Signout(c); err != nil {
		t.Fatalf("signout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if signedOut != "the-access-token" {
		t.Fatalf("service saw token %q", signedOut)
	}
	if !strings.Contains(rec.Body.String(), "signed out") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Signout_MissingToken(t *testing.T) {
	stub := &stubAuthService{
		signoutFn: func(context.Context, string) error {
			t.Fatalf("service should not run without a bearer token")
			return nil
		},
	}

	c, _ := newTestContext(t, http.MethodPost, "/auth/signout", "")

	err := NewAuthHandler(stub).Signout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
