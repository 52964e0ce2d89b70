package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/capmanage/capmanage/pkg/jwtx"
)

// VerificationService issues and redeems single-use tokens. A token moves
// from issued to redeemed or expired, whichever happens first, and never
// leaves either state.
type VerificationService struct {
	Store  store.Store
	Tokens TokenIssuer
	Clock  Clock
}

// IssueEmailVerificationToken signs an email-verification token for u.
func (s *VerificationService) IssueEmailVerificationToken(u domain.User) (jwtx.Token, error) {
	return s.Tokens.Issue(jwtx.KindEmailVerification, u.ID)
}

// IssuePasswordResetToken signs a password-reset token for u.
func (s *VerificationService) IssuePasswordResetToken(u domain.User) (jwtx.Token, error) {
	return s.Tokens.Issue(jwtx.KindPasswordReset, u.ID)
}

// Redeem verifies token as kind and, in one transaction, records it in the
// redemption ledger and runs fn. The ledger insert is insert-if-absent, so
// of any number of concurrent redemptions of one token exactly one gets
// past it; the rest fail with ErrAlreadyUsed. If fn fails the ledger row is
// rolled back with it and the token stays redeemable.
//
// A nil fn on an email-verification token marks the email verified.
func (s *VerificationService) Redeem(ctx context.Context, token string, kind jwtx.Kind, fn RedeemFunc) (domain.User, error) {
	if !kind.SingleUse() {
		return domain.User{}, fmt.Errorf("%w: %s tokens are not single-use", ErrInvalidRequest, kind)
	}
	if fn == nil && kind == jwtx.KindEmailVerification {
		fn = s.markVerified
	}

	claims, err := s.Tokens.Verify(token, kind)
	if err != nil {
		return domain.User{}, err
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, claims.Subject)
		if err != nil {
			return mapStoreErr(err)
		}

		err = tx.Redemptions().Redeem(ctx, domain.Redemption{
			TokenID:    claims.TokenID(),
			Kind:       kind.String(),
			UserID:     u.ID,
			RedeemedAt: s.Clock.now(),
			ExpiresAt:  claims.ExpiresAtTime(),
		})
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyUsed
			}
			return fmt.Errorf("record redemption: %w", err)
		}

		if fn != nil {
			if err := fn(ctx, tx, u); err != nil {
				return err
			}
		}

		user, err = tx.Users().GetUserByID(ctx, u.ID)
		return mapStoreErr(err)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// markVerified sets the email verified. Students become active with it;
// other roles keep whatever activation an administrator gave them.
func (s *VerificationService) markVerified(ctx context.Context, tx store.Tx, u domain.User) error {
	_, err := tx.Users().MarkEmailVerified(ctx, u.ID, u.Role == domain.RoleStudent, s.Clock.now())
	return mapStoreErr(err)
}
