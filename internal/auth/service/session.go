package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/capmanage/capmanage/pkg/jwtx"
)

// SessionService authenticates requests carrying an access token. It holds
// no state of its own.
type SessionService struct {
	Store  store.Store
	Tokens TokenIssuer
}

// Authenticate verifies accessToken and returns its user. Every failure is
// ErrUnauthenticated wrapping the cause, so callers can check either.
func (s *SessionService) Authenticate(ctx context.Context, accessToken string) (domain.User, error) {
	claims, err := s.Tokens.Verify(accessToken, jwtx.KindAccess)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrNotFound)
		}
		return domain.User{}, err
	}

	if err := checkAccountStatus(u); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return u, nil
}
