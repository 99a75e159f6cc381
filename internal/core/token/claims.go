package token

import "github.com/golang-jwt/jwt/v5"

// Type distinguishes the two bearer credential variants.
type Type string

const (
	TypeAccess  Type = "ACCESS"
	TypeRefresh Type = "REFRESH"
)

// Claims is the only claim shape this service signs or accepts. Both token
// variants carry exactly sub, sid, jti, type, iat and exp; no optional
// claims, no nesting.
//
// sub, jti, iat and exp live in the embedded RegisteredClaims.
type Claims struct {
	jwt.RegisteredClaims

	SessionID string `json:"sid"`
	TokenType Type   `json:"type"`
}
