package jwtx

import "errors"

// Verifier validates a token of the expected kind and gives back its claims.
type Verifier interface {
	Verify(token string, expected Kind) (Claims, error)
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrUnknownKind  = errors.New("jwtx: unknown token kind")
	ErrKindMismatch = errors.New("jwtx: token kind mismatch")

	ErrIssuer        = errors.New("jwtx: issuer mismatch")
	ErrSecretVersion = errors.New("jwtx: secret version mismatch")
	ErrExpired       = errors.New("jwtx: token expired")
	ErrNotYetValid   = errors.New("jwtx: token not yet valid")
)
