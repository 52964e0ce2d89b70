package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/capmanage/capmanage/pkg/cryptox"
	"github.com/capmanage/capmanage/pkg/jwtx"
	"github.com/capmanage/capmanage/pkg/slogx"
)

// DefaultMaxFailedLogins is the number of consecutive failed logins after
// which an account is locked.
const DefaultMaxFailedLogins = 5

const tokenTypeBearer = "Bearer"

// Session is what a successful login or refresh returns.
type Session struct {
	domain.TokenPair
	User domain.User
}

type TokenService struct {
	Store  store.Store
	Tokens TokenIssuer
	Hasher PasswordHasher
	Clock  Clock

	// MaxFailedLogins defaults to DefaultMaxFailedLogins.
	MaxFailedLogins int
}

// IssueAccessToken signs an access token for u.
func (s *TokenService) IssueAccessToken(u domain.User) (jwtx.Token, error) {
	return s.Tokens.Issue(jwtx.KindAccess, u.ID)
}

// IssueRefreshToken signs a refresh token for u and stores its record so it
// can later be rotated or revoked.
func (s *TokenService) IssueRefreshToken(ctx context.Context, u domain.User, ip string) (jwtx.Token, error) {
	tok, err := s.Tokens.Issue(jwtx.KindRefresh, u.ID)
	if err != nil {
		return jwtx.Token{}, err
	}
	if err := s.storeRefresh(ctx, s.Store.RefreshTokens(), tok, ip); err != nil {
		return jwtx.Token{}, err
	}
	return tok, nil
}

func (s *TokenService) storeRefresh(ctx context.Context, repo store.RefreshTokens, tok jwtx.Token, ip string) error {
	err := repo.CreateRefreshToken(ctx, domain.RefreshToken{
		ID:          tok.Claims.TokenID(),
		UserID:      tok.Claims.Subject,
		TokenHash:   cryptox.FingerprintToken(tok.Value),
		CreatedByIP: ip,
		ExpiresAt:   tok.Claims.ExpiresAtTime(),
		CreatedAt:   s.Clock.now(),
	})
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Login checks email and password and opens a session.
//
// A locked account is refused before the password is looked at, so a locked
// account cannot be used as a password oracle. Unknown emails still pay for a
// bcrypt comparison.
func (s *TokenService) Login(ctx context.Context, email, password, ip string) (Session, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Hasher.VerifyDummy(password)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if u.IsLocked() {
		l.Info("login refused, account locked", slog.String("user_id", u.ID))
		return Session{}, ErrAccountLocked
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			return Session{}, err
		}

		updated, ferr := s.Store.Users().RecordLoginFailure(ctx, u.ID, s.maxFailedLogins(), s.Clock.now())
		if ferr != nil {
			l.Error("failed to record login failure", slog.String("user_id", u.ID), slog.Any("error", ferr))
			return Session{}, ErrInvalidCredentials
		}
		if updated.IsLocked() {
			l.Warn("account locked after failed logins",
				slog.String("user_id", u.ID),
				slog.Int("attempts", updated.FailedLoginAttempts),
			)
			return Session{}, ErrAccountLocked
		}
		return Session{}, ErrInvalidCredentials
	}

	now := s.Clock.now()
	if err := s.Store.Users().RecordLoginSuccess(ctx, u.ID, now); err != nil {
		return Session{}, fmt.Errorf("record login: %w", err)
	}
	u.FailedLoginAttempts = 0
	u.LastLoginAt = &now

	if s.Hasher.NeedsRehash(u.PasswordHash) {
		if hash, err := s.Hasher.Hash(password); err == nil {
			if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash, now); err != nil {
				l.Warn("failed to upgrade password hash", slog.String("user_id", u.ID), slog.Any("error", err))
			}
		}
	}

	if err := checkAccountStatus(u); err != nil {
		return Session{}, err
	}

	return s.openSession(ctx, u, ip)
}

func (s *TokenService) openSession(ctx context.Context, u domain.User, ip string) (Session, error) {
	access, err := s.IssueAccessToken(u)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.IssueRefreshToken(ctx, u, ip)
	if err != nil {
		return Session{}, err
	}
	return newSession(u, access, refresh), nil
}

func newSession(u domain.User, access, refresh jwtx.Token) Session {
	return Session{
		TokenPair: domain.TokenPair{
			AccessToken:           access.Value,
			AccessTokenExpiresAt:  access.Claims.ExpiresAtTime(),
			RefreshToken:          refresh.Value,
			RefreshTokenExpiresAt: refresh.Claims.ExpiresAtTime(),
			TokenType:             tokenTypeBearer,
		},
		User: u,
	}
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued in the same transaction. Revocation only matches a token
// that is still active, so of two concurrent refreshes with the same token
// only one succeeds.
func (s *TokenService) Refresh(ctx context.Context, refreshToken, ip string) (Session, error) {
	rt, err := s.lookupRefresh(ctx, refreshToken)
	if err != nil {
		return Session{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidRefresh
		}
		return Session{}, err
	}
	if err := checkAccountStatus(u); err != nil {
		return Session{}, err
	}

	access, err := s.IssueAccessToken(u)
	if err != nil {
		return Session{}, err
	}
	next, err := s.Tokens.Issue(jwtx.KindRefresh, u.ID)
	if err != nil {
		return Session{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, rt.ID, ip, next.Claims.TokenID(), s.Clock.now()); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		return s.storeRefresh(ctx, tx.RefreshTokens(), next, ip)
	})
	if err != nil {
		return Session{}, err
	}

	return newSession(u, access, next), nil
}

// lookupRefresh verifies the token and returns its active stored record.
func (s *TokenService) lookupRefresh(ctx context.Context, refreshToken string) (domain.RefreshToken, error) {
	claims, err := s.Tokens.Verify(refreshToken, jwtx.KindRefresh)
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("%w: %w", ErrInvalidRefresh, err)
	}

	rt, err := s.Store.RefreshTokens().GetRefreshToken(ctx, claims.TokenID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RefreshToken{}, ErrInvalidRefresh
		}
		return domain.RefreshToken{}, err
	}

	fp := cryptox.FingerprintToken(refreshToken)
	if subtle.ConstantTimeCompare([]byte(fp), []byte(rt.TokenHash)) != 1 {
		return domain.RefreshToken{}, ErrInvalidRefresh
	}
	if !rt.Active(s.Clock.now()) {
		return domain.RefreshToken{}, ErrInvalidRefresh
	}
	return rt, nil
}

// Logout revokes a refresh token. Tokens that are invalid, unknown or
// already revoked are ignored.
func (s *TokenService) Logout(ctx context.Context, refreshToken, ip string) error {
	rt, err := s.lookupRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefresh) {
			return nil
		}
		return err
	}

	err = s.Store.RefreshTokens().RevokeRefreshToken(ctx, rt.ID, ip, "", s.Clock.now())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

func (s *TokenService) maxFailedLogins() int {
	if s.MaxFailedLogins <= 0 {
		return DefaultMaxFailedLogins
	}
	return s.MaxFailedLogins
}
