package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTLs. Services override these from configuration; they only
// apply when a TTL is left at zero.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// DefaultSingleUseTokenTTL is the default lifetime for email verification
	// and password reset tokens.
	DefaultSingleUseTokenTTL = 30 * time.Minute
)

// Claims are the claims carried by every token the issuer signs. The
// registered "jti" doubles as the token id used by the refresh store and the
// redemption ledger.
type Claims struct {
	jwt.RegisteredClaims

	// Kind of token ("access", "refresh", "email-verification", "password-reset")
	Kind Kind `json:"knd"`

	// SecretVersion the token was signed under
	SecretVersion int `json:"sv"`
}

// NewClaims builds claims for a token of the given kind that expires ttl
// after now.
func NewClaims(kind Kind, subject, issuer string, version int, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Kind:          kind,
		SecretVersion: version,
	}
}

// NewJTI returns a random token identifier.
func NewJTI() string {
	return uuid.NewString()
}

// TokenID returns the "jti" claim.
func (c *Claims) TokenID() string { return c.ID }

// IssuedAtTime returns the "iat" claim, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns the "exp" claim, or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ValidateIssuer rejects tokens minted by another deployment. An empty
// expected issuer accepts any. A foreign issuer is reported as an invalid
// signature since the token was never ours to trust.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return fmt.Errorf("%w: %w: %q", ErrInvalidSig, ErrIssuer, c.Issuer)
	}
	return nil
}

// ValidateKind checks the token was issued for the expected purpose.
func (c *Claims) ValidateKind(expected Kind) error {
	if c.Kind != expected {
		return ErrKindMismatch
	}
	return nil
}

// ValidateExpiryAt checks exp and nbf against now. A token is expired from
// the exp second on. Tokens used before nbf come from a clock we do not
// share and count as invalid signatures.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return fmt.Errorf("%w: %w", ErrInvalidSig, ErrNotYetValid)
	}
	return nil
}
