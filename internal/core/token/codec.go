package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dronework/marketplace-api/internal/core/domain"
)

// Pair bundles a freshly minted access/refresh token generation. Both
// tokens reference the same session.
type Pair struct {
	Access        string
	Refresh       string
	AccessClaims  Claims
	RefreshClaims Claims
}

// Codec signs and verifies bearer tokens with an HMAC-SHA method over a
// server-held secret. It is stateless: it never touches the session store
// or the revocation cache, and consults the clock only to judge exp.
type Codec struct {
	method     jwt.SigningMethod
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewCodec builds a Codec for the given HMAC algorithm (HS256, HS384 or
// HS512). The now func is injectable for deterministic tests; pass nil to
// use the system clock.
func NewCodec(secret, algorithm string, accessTTL, refreshTTL time.Duration, now func() time.Time) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: secret is required")
	}
	method := jwt.GetSigningMethod(strings.ToUpper(algorithm))
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok || method == nil {
		return nil, errors.New("token: algorithm must be in the HMAC-SHA family")
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Codec{
		method:     method,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}, nil
}

// IssuePair mints an access/refresh generation for the given user and
// session. Each token gets a fresh jti.
func (c *Codec) IssuePair(userID, sessionID uuid.UUID) (Pair, error) {
	now := c.now()

	access, accessClaims, err := c.issue(TypeAccess, userID, sessionID, now, c.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, refreshClaims, err := c.issue(TypeRefresh, userID, sessionID, now, c.refreshTTL)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		Access:        access,
		Refresh:       refresh,
		AccessClaims:  accessClaims,
		RefreshClaims: refreshClaims,
	}, nil
}

func (c *Codec) issue(typ Type, userID, sessionID uuid.UUID, now time.Time, ttl time.Duration) (string, Claims, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SessionID: sessionID.String(),
		TokenType: typ,
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}

// Decode verifies tokenString and returns its claims. It reports exactly
// one of three failure kinds:
//
//   - domain.ErrTokenMalformed: not a compact token, or the claim set is
//     missing sub, sid, jti, type, iat or exp.
//   - domain.ErrTokenExpired: exp is at or before now. Checked before the
//     signature so an expired token always reads as expired.
//   - domain.ErrTokenSignatureInvalid: every other verification failure.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	unverified := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, unverified); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	if err := validateShape(unverified); err != nil {
		return nil, err
	}
	if !unverified.ExpiresAt.Time.After(c.now()) {
		return nil, domain.ErrTokenExpired
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenSignatureInvalid
	}
	return claims, nil
}

func validateShape(claims *Claims) error {
	switch {
	case claims.Subject == "",
		claims.SessionID == "",
		claims.ID == "",
		claims.IssuedAt == nil,
		claims.ExpiresAt == nil:
		return domain.ErrTokenMalformed
	}
	if claims.TokenType != TypeAccess && claims.TokenType != TypeRefresh {
		return domain.ErrTokenMalformed
	}
	return nil
}
