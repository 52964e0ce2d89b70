// Package service holds the credential, token, verification and session
// logic of the auth service. Services are plain structs wired by the app
// package; every dependency is a field so tests can swap it.
package service

import (
	"context"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/capmanage/capmanage/pkg/jwtx"
)

// Clock returns the current time. A nil Clock reads the wall clock.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// TokenIssuer signs and verifies tokens. *jwtx.Issuer implements it.
type TokenIssuer interface {
	Issue(kind jwtx.Kind, subject string) (jwtx.Token, error)
	Verify(token string, expected jwtx.Kind) (jwtx.Claims, error)
	TTL(kind jwtx.Kind) time.Duration
}

// PasswordHasher hashes and checks passwords. *cryptox.PasswordHasher
// implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
	VerifyDummy(password string)
	NeedsRehash(hash string) bool
}

// RedeemFunc is the state change performed when a single-use token is
// redeemed. It runs inside the redemption transaction and must only use tx.
type RedeemFunc func(ctx context.Context, tx store.Tx, user domain.User) error

// checkAccountStatus is the gate applied on login, refresh and every
// authenticated request. Faculty under review are reported as such rather
// than as inactive.
func checkAccountStatus(u domain.User) error {
	switch {
	case u.Role == domain.RoleFaculty && u.FacultyStatus == domain.FacultyPending:
		return ErrFacultyPending
	case u.Role == domain.RoleFaculty && u.FacultyStatus == domain.FacultyRejected:
		return ErrFacultyRejected
	case !u.IsActive:
		return ErrAccountInactive
	case u.IsLocked():
		return ErrAccountLocked
	case !u.IsEmailVerified:
		return ErrEmailNotVerified
	default:
		return nil
	}
}
