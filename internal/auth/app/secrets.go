package app

import (
	"fmt"

	"github.com/capmanage/capmanage/pkg/jwtx"
)

// Secrets builds the per-kind signing secrets. The single-use kinds fall
// back to secrets derived from the access secret, so a deployment only has
// to provide two.
func (c Config) Secrets() (jwtx.Secrets, error) {
	access := []byte(c.AccessTokenSecret)

	derive := func(explicit string, kind jwtx.Kind) ([]byte, error) {
		if explicit != "" {
			return []byte(explicit), nil
		}
		secret, err := jwtx.DeriveSecret(access, kind)
		if err != nil {
			return nil, fmt.Errorf("derive %s secret: %w", kind, err)
		}
		return secret, nil
	}

	ev, err := derive(c.EmailVerificationTokenSecret, jwtx.KindEmailVerification)
	if err != nil {
		return jwtx.Secrets{}, err
	}
	pr, err := derive(c.PasswordResetTokenSecret, jwtx.KindPasswordReset)
	if err != nil {
		return jwtx.Secrets{}, err
	}

	return jwtx.Secrets{
		Access:            access,
		Refresh:           []byte(c.RefreshTokenSecret),
		EmailVerification: ev,
		PasswordReset:     pr,
		Version:           c.TokenSecretVersion,
	}, nil
}

// NewIssuer creates the token issuer for cfg.
func NewIssuer(cfg Config) (*jwtx.Issuer, error) {
	secrets, err := cfg.Secrets()
	if err != nil {
		return nil, err
	}

	return jwtx.NewIssuer(jwtx.IssuerOptions{
		Secrets: secrets,
		Issuer:  cfg.Issuer,
		TTLs: jwtx.TTLs{
			Access:            cfg.AccessTokenTTL,
			Refresh:           cfg.RefreshTokenTTL,
			EmailVerification: cfg.EmailVerificationTTL,
			PasswordReset:     cfg.PasswordResetTTL,
		},
	})
}
