package domain

import "errors"

// Token lifecycle errors surfaced by the codec and the authorize pipeline.
// The codec distinguishes malformed from signature-invalid; the authorize
// pipeline collapses both into ErrTokenInvalid so callers never learn which
// check failed.
var ErrTokenInvalid = errors.New("invalid token")
var ErrTokenMalformed = errors.New("token malformed")
var ErrTokenSignatureInvalid = errors.New("token signature invalid")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenRevoked = errors.New("token revoked")

// ErrValidation marks input-shape failures detected before any side effect.
var ErrValidation = errors.New("validation error")
