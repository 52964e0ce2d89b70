package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTLs configures how long each kind of token lives. Zero values fall back
// to the package defaults.
type TTLs struct {
	Access            time.Duration
	Refresh           time.Duration
	EmailVerification time.Duration
	PasswordReset     time.Duration
}

// For returns the lifetime of tokens of the given kind.
func (t TTLs) For(kind Kind) time.Duration {
	var ttl, def time.Duration
	switch kind {
	case KindAccess:
		ttl, def = t.Access, DefaultAccessTokenTTL
	case KindRefresh:
		ttl, def = t.Refresh, DefaultRefreshTokenTTL
	case KindEmailVerification:
		ttl, def = t.EmailVerification, DefaultSingleUseTokenTTL
	case KindPasswordReset:
		ttl, def = t.PasswordReset, DefaultSingleUseTokenTTL
	}
	if ttl <= 0 {
		return def
	}
	return ttl
}

// IssuerOptions configures an Issuer.
type IssuerOptions struct {
	Secrets Secrets
	Issuer  string
	TTLs    TTLs

	// Now is the clock used for iat/exp and for verification. Defaults to
	// time.Now.
	Now func() time.Time
}

// Token is a signed token together with the claims it carries.
type Token struct {
	Value  string
	Claims Claims
}

// Issuer signs and verifies HS256 tokens, one secret per Kind.
type Issuer struct {
	secrets Secrets
	issuer  string
	ttls    TTLs
	now     func() time.Time
}

var _ Verifier = (*Issuer)(nil)

// NewIssuer validates the secrets and returns an Issuer.
func NewIssuer(opts IssuerOptions) (*Issuer, error) {
	if err := opts.Secrets.Validate(); err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Issuer{
		secrets: opts.Secrets,
		issuer:  opts.Issuer,
		ttls:    opts.TTLs,
		now:     now,
	}, nil
}

// TTL returns the configured lifetime for kind.
func (i *Issuer) TTL(kind Kind) time.Duration { return i.ttls.For(kind) }

// Issue signs a new token of the given kind for subject.
func (i *Issuer) Issue(kind Kind, subject string) (Token, error) {
	secret, err := i.secrets.For(kind)
	if err != nil {
		return Token{}, err
	}
	if subject == "" {
		return Token{}, errors.New("jwtx: subject required")
	}

	claims := NewClaims(kind, subject, i.issuer, i.secrets.Version, i.ttls.For(kind), i.now())

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return Token{}, fmt.Errorf("jwtx: sign %s token: %w", kind, err)
	}
	return Token{Value: value, Claims: claims}, nil
}

// Verify parses tokenStr and checks, in order, its signature under the
// secret of the kind it declares, its expiry, its issuer and finally that
// the declared kind is the expected one.
func (i *Issuer) Verify(tokenStr string, expected Kind) (Claims, error) {
	// The library only checks the signature; claims are validated below
	// against the issuer's clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*Claims)
		if !ok {
			return nil, ErrMalformed
		}
		if c.SecretVersion != i.secrets.Version {
			return nil, ErrSecretVersion
		}
		return i.secrets.For(c.Kind)
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: missing sub, jti or exp", ErrMalformed)
	}
	if err := claims.ValidateExpiryAt(i.now()); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(i.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateKind(expected); err != nil {
		return Claims{}, fmt.Errorf("%w: got %s, want %s", err, claims.Kind, expected)
	}

	return *claims, nil
}

// mapParseError folds jwt library errors into the jwtx sentinels.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrSecretVersion):
		// Signed under a rotated secret, so the signature cannot be trusted.
		return fmt.Errorf("%w: %w", ErrInvalidSig, ErrSecretVersion)
	case errors.Is(err, ErrUnknownKind), errors.Is(err, ErrMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
