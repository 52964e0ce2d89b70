package postgres

import (
	"context"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
)

type redemptionsRepo struct {
	db dbtx
}

// Redeem relies on the primary key: under concurrent redemption exactly one
// insert lands, the rest see zero affected rows.
func (r *redemptionsRepo) Redeem(ctx context.Context, red domain.Redemption) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO token_redemptions (token_id, kind, user_id, redeemed_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token_id) DO NOTHING`,
		red.TokenID, red.Kind, red.UserID, red.RedeemedAt.UTC(), red.ExpiresAt.UTC(),
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
	var red domain.Redemption
	err := r.db.QueryRowContext(ctx, `
		SELECT token_id, kind, user_id, redeemed_at, expires_at
		FROM token_redemptions WHERE token_id = $1`, tokenID,
	).Scan(&red.TokenID, &red.Kind, &red.UserID, &red.RedeemedAt, &red.ExpiresAt)
	if err != nil {
		return domain.Redemption{}, mapNotFound(err)
	}
	red.RedeemedAt = red.RedeemedAt.UTC()
	red.ExpiresAt = red.ExpiresAt.UTC()
	return red, nil
}

func (r *redemptionsRepo) DeleteExpiredRedemptions(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM token_redemptions WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
