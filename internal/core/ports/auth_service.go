package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/dronework/marketplace-api/internal/core/domain"
	"github.com/dronework/marketplace-api/internal/core/token"
)

// AuthService is the orchestrator of the security core: registration,
// login, request-time authorization, token rotation and signout.
type AuthService interface {
	// Signup registers a new user and opens its first session.
	Signup(ctx context.Context, host, email, password string) (*domain.User, token.Pair, error)
	// Signin authenticates credentials and opens a session. Unknown email,
	// inactive user and wrong password all fail with the same
	// domain.ErrInvalidCredentials.
	Signin(ctx context.Context, host, email, password string) (*domain.User, token.Pair, error)
	// Authorize resolves an access token to its authenticated user and
	// verified claims. This is the per-request authentication pipeline.
	Authorize(ctx context.Context, accessToken string) (*domain.User, *token.Claims, error)
	// AuthenticatedAccount runs Authorize and then resolves accountID as an
	// account context the user provably owns.
	AuthenticatedAccount(ctx context.Context, accessToken string, accountID uuid.UUID) (*domain.User, *domain.Account, error)
	// Refresh rotates a refresh token: the old token is revoked and a new
	// pair is minted for the same session.
	Refresh(ctx context.Context, refreshToken string) (token.Pair, error)
	// Signout deactivates the token's session and revokes its jti.
	// Repeating it with the same token is a no-op success.
	Signout(ctx context.Context, accessToken string) error
	// ListSessions returns the user's active device sessions,
	// most-recent-first.
	ListSessions(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
}
