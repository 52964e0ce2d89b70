package sqlite

import (
	"context"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
)

type redemptionsRepo struct {
	db dbtx
}

func (r *redemptionsRepo) Redeem(ctx context.Context, red domain.Redemption) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO token_redemptions (token_id, kind, user_id, redeemed_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (token_id) DO NOTHING`,
		red.TokenID, red.Kind, red.UserID, toMillis(red.RedeemedAt), toMillis(red.ExpiresAt),
	)
	if err != nil {
		return mapConstraint(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *redemptionsRepo) GetRedemption(ctx context.Context, tokenID string) (domain.Redemption, error) {
	var (
		red                   domain.Redemption
		redeemedAt, expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT token_id, kind, user_id, redeemed_at, expires_at
		FROM token_redemptions WHERE token_id = ?`, tokenID,
	).Scan(&red.TokenID, &red.Kind, &red.UserID, &redeemedAt, &expiresAt)
	if err != nil {
		return domain.Redemption{}, mapNotFound(err)
	}
	red.RedeemedAt = fromMillis(redeemedAt)
	red.ExpiresAt = fromMillis(expiresAt)
	return red, nil
}

func (r *redemptionsRepo) DeleteExpiredRedemptions(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM token_redemptions WHERE expires_at < ?`, toMillis(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
