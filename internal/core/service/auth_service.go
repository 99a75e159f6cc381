package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dronework/marketplace-api/internal/core/domain"
	"github.com/dronework/marketplace-api/internal/core/ports"
	"github.com/dronework/marketplace-api/internal/core/token"
)

const minPasswordLength = 8

var emailCheck = validator.New()

// AuthService orchestrates the security core. All collaborators are wired
// explicitly at construction; there is no ambient state beyond the clock.
type AuthService struct {
	users    ports.UserRepository
	accounts ports.AccountRepository
	sessions ports.SessionRepository
	revoked  ports.RevocationCache
	codec    *token.Codec
	hasher   ports.PasswordHasher
	logger   zerolog.Logger
	now      func() time.Time

	// dummyHash is verified against when signin hits an unknown email so
	// that path pays the same hashing cost as a wrong password.
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	accounts ports.AccountRepository,
	sessions ports.SessionRepository,
	revoked ports.RevocationCache,
	codec *token.Codec,
	hasher ports.PasswordHasher,
	logger zerolog.Logger,
	now func() time.Time,
) (*AuthService, error) {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("priming dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		accounts:  accounts,
		sessions:  sessions,
		revoked:   revoked,
		codec:     codec,
		hasher:    hasher,
		logger:    logger,
		now:       now,
		dummyHash: dummy,
	}, nil
}

// Signup registers a user and opens its first session.
func (s *AuthService) Signup(ctx context.Context, host, email, password string) (*domain.User, token.Pair, error) {
	email = foldEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, token.Pair{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, token.Pair{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, token.Pair{}, err
	}

	pair, err := s.openSession(ctx, user, host)
	if err != nil {
		return nil, token.Pair{}, err
	}
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return user, pair, nil
}

// Signin authenticates credentials and opens a session. Unknown email,
// inactive user and wrong password are indistinguishable to the caller.
func (s *AuthService) Signin(ctx context.Context, host, email, password string) (*domain.User, token.Pair, error) {
	email = foldEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Equalize the timing class with the wrong-password path.
			s.hasher.Verify(password, s.dummyHash)
			return nil, token.Pair{}, domain.ErrInvalidCredentials
		}
		return nil, token.Pair{}, err
	}
	// Verify runs before the active check so an inactive user costs the
	// same as a wrong password.
	ok := s.hasher.Verify(password, user.PasswordHash)
	if !ok || !user.IsActive {
		return nil, token.Pair{}, domain.ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, user, host)
	if err != nil {
		return nil, token.Pair{}, err
	}
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user signed in")
	return user, pair, nil
}

// openSession creates the session row, mints a token pair referencing it,
// and pins the session expiry to the refresh token's exp. The placeholder
// expiry closes the window in which a session row exists without tokens.
func (s *AuthService) openSession(ctx context.Context, user *domain.User, host string) (token.Pair, error) {
	now := s.now()
	session, err := s.sessions.Create(ctx, &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Host:      host,
		IsActive:  true,
		ExpiresAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return token.Pair{}, err
	}

	pair, err := s.codec.IssuePair(user.ID, session.ID)
	if err != nil {
		return token.Pair{}, fmt.Errorf("mint token pair: %w", err)
	}

	session.ExpiresAt = pair.RefreshClaims.ExpiresAt.Time
	session.UpdatedAt = s.now()
	if _, err := s.sessions.Update(ctx, session); err != nil {
		return token.Pair{}, err
	}
	return pair, nil
}

// Authorize is the per-request authentication pipeline. The checks run in
// a fixed order: decode, type, deny-list, session, user. The deny-list is
// consulted before any database round-trip.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (*domain.User, *token.Claims, error) {
	claims, err := s.decodeAs(accessToken, token.TypeAccess)
	if err != nil {
		return nil, nil, err
	}

	if revoked, err := s.revoked.IsRevoked(ctx, claims.ID); err != nil || revoked {
		if err != nil {
			s.logger.Error().Err(err).Msg("revocation check failed, failing closed")
		}
		return nil, nil, domain.ErrTokenRevoked
	}

	session, err := s.loadSession(ctx, claims.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if !session.IsActive {
		return nil, nil, domain.ErrSessionRevoked
	}
	if session.Expired(s.now()) {
		if _, err := s.sessions.Deactivate(ctx, session.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, err
		}
		return nil, nil, domain.ErrSessionExpired
	}

	user, err := s.loadUser(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// AuthenticatedAccount resolves accountID as an account context owned by
// the token's user.
func (s *AuthService) AuthenticatedAccount(ctx context.Context, accessToken string, accountID uuid.UUID) (*domain.User, *domain.Account, error) {
	user, _, err := s.Authorize(ctx, accessToken)
	if err != nil {
		return nil, nil, err
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if account.UserID != user.ID {
		return nil, nil, domain.ErrForbidden
	}
	return user, account, nil
}

// Refresh rotates a refresh token. The old token's jti is revoked for its
// remaining lifetime before the replacement pair is minted; the session id
// survives the rotation. The matching access token is left alone: it
// expires on its own within the access TTL.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	claims, err := s.decodeAs(refreshToken, token.TypeRefresh)
	if err != nil {
		return token.Pair{}, err
	}

	if revoked, err := s.revoked.IsRevoked(ctx, claims.ID); err != nil || revoked {
		if err != nil {
			s.logger.Error().Err(err).Msg("revocation check failed, failing closed")
		}
		return token.Pair{}, domain.ErrTokenRevoked
	}

	session, err := s.loadSession(ctx, claims.SessionID)
	if err != nil {
		return token.Pair{}, err
	}
	if !session.IsActive {
		return token.Pair{}, domain.ErrSessionRevoked
	}
	now := s.now()
	if session.Expired(now) {
		// An expired session is not granted new life by refresh.
		if _, err := s.sessions.Deactivate(ctx, session.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return token.Pair{}, err
		}
		return token.Pair{}, domain.ErrSessionRevoked
	}

	user, err := s.loadUser(ctx, claims.Subject)
	if err != nil {
		return token.Pair{}, err
	}

	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time.Sub(now)); err != nil {
		// A silently dropped revocation would leave the old refresh token
		// usable until natural expiry.
		return token.Pair{}, fmt.Errorf("revoke rotated token: %w", err)
	}

	pair, err := s.codec.IssuePair(user.ID, session.ID)
	if err != nil {
		return token.Pair{}, fmt.Errorf("mint token pair: %w", err)
	}

	session.ExpiresAt = pair.RefreshClaims.ExpiresAt.Time
	session.UpdatedAt = s.now()
	if _, err := s.sessions.Update(ctx, session); err != nil {
		return token.Pair{}, err
	}

	s.logger.Info().Str("session_id", session.ID.String()).Msg("token pair rotated")
	return pair, nil
}

// Signout deactivates the token's session, then revokes its jti. The
// session goes first: a reader that still sees the token as live must not
// also see the session as active. Repeated signout is a no-op success.
func (s *AuthService) Signout(ctx context.Context, accessToken string) error {
	claims, err := s.decodeAs(accessToken, token.TypeAccess)
	if err != nil {
		return err
	}

	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return domain.ErrTokenInvalid
	}
	if _, err := s.sessions.Deactivate(ctx, sid); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info().Str("session_id", claims.SessionID).Msg("session signed out")
	return nil
}

// ListSessions returns the user's active device sessions,
// most-recent-first.
func (s *AuthService) ListSessions(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	return s.sessions.ListActiveByUser(ctx, userID)
}

// decodeAs decodes tokenString and enforces its variant, collapsing
// malformed and signature-invalid into ErrTokenInvalid.
func (s *AuthService) decodeAs(tokenString string, want token.Type) (*token.Claims, error) {
	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if claims.TokenType != want {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func (s *AuthService) loadSession(ctx context.Context, sid string) (*domain.Session, error) {
	id, err := uuid.Parse(sid)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionRevoked
		}
		return nil, err
	}
	return session, nil
}

func (s *AuthService) loadUser(ctx context.Context, sub string) (*domain.User, error) {
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

func foldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if err := emailCheck.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: email must be a valid address", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	return nil
}
