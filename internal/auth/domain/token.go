package domain

import "time"

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
	TokenType             string    `json:"tokenType"`
}

// RefreshToken is the stored record of an issued refresh token, keyed by the
// token's jti.
type RefreshToken struct {
	ID          string // jti of the signed refresh token
	UserID      string
	TokenHash   string // deterministic fingerprint (base64url SHA-256)
	CreatedByIP string
	ExpiresAt   time.Time
	RevokedAt   *time.Time
	RevokedByIP string
	ReplacedBy  string // jti of the token issued on rotation
	CreatedAt   time.Time
}

// Active reports whether the token is neither revoked nor expired at now.
func (t RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// Redemption is a ledger entry recording the first successful use of a
// single-use token.
type Redemption struct {
	TokenID    string // jti of the redeemed token
	Kind       string
	UserID     string
	RedeemedAt time.Time
	ExpiresAt  time.Time // copied from the token so the row can be pruned
}
