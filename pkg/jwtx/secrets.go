package jwtx

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the shortest secret accepted for any kind.
const MinSecretLength = 32

const derivedSecretBytes = 32

var (
	ErrSecretTooShort = errors.New("jwtx: secret too short")
	ErrSecretReused   = errors.New("jwtx: secret shared between token kinds")
	ErrSecretMissing  = errors.New("jwtx: secret missing")
	ErrInvalidVersion = errors.New("jwtx: secret version must be positive")
)

// Secrets holds one HMAC secret per token kind plus the version stamped into
// every token as the "sv" claim. Bumping Version invalidates everything
// issued under the previous version.
type Secrets struct {
	Access            []byte
	Refresh           []byte
	EmailVerification []byte
	PasswordReset     []byte
	Version           int
}

// DeriveSecret expands root into a kind-specific secret using HKDF-SHA256.
// The kind name is the HKDF info, so each kind gets an independent key.
func DeriveSecret(root []byte, kind Kind) ([]byte, error) {
	if len(root) == 0 {
		return nil, ErrSecretMissing
	}

	r := hkdf.New(sha256.New, root, nil, []byte("capmanage/"+kind.String()))
	out := make([]byte, derivedSecretBytes)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("jwtx: derive %s secret: %w", kind, err)
	}
	return out, nil
}

// For returns the secret used to sign tokens of the given kind.
func (s Secrets) For(kind Kind) ([]byte, error) {
	var secret []byte
	switch kind {
	case KindAccess:
		secret = s.Access
	case KindRefresh:
		secret = s.Refresh
	case KindEmailVerification:
		secret = s.EmailVerification
	case KindPasswordReset:
		secret = s.PasswordReset
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSecretMissing, kind)
	}
	return secret, nil
}

// Validate checks that every kind has a long enough secret and that no two
// kinds share one.
func (s Secrets) Validate() error {
	if s.Version <= 0 {
		return ErrInvalidVersion
	}

	seen := make([][]byte, 0, len(Kinds))
	for _, kind := range Kinds {
		secret, err := s.For(kind)
		if err != nil {
			return err
		}
		if len(secret) < MinSecretLength {
			return fmt.Errorf("%w: %s needs at least %d bytes", ErrSecretTooShort, kind, MinSecretLength)
		}
		for _, other := range seen {
			if bytes.Equal(other, secret) {
				return fmt.Errorf("%w: %s", ErrSecretReused, kind)
			}
		}
		seen = append(seen, secret)
	}
	return nil
}
