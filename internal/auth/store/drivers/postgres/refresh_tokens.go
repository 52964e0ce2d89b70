package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, created_by_ip, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.UserID, t.TokenHash, nullString(t.CreatedByIP), t.ExpiresAt.UTC(), t.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshToken(ctx context.Context, id string) (domain.RefreshToken, error) {
	var (
		t                          domain.RefreshToken
		createdBy, revokedBy, repl sql.NullString
		revokedAt                  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, created_by_ip, expires_at, revoked_at, revoked_by_ip, replaced_by, created_at
		FROM refresh_tokens WHERE id = $1`, id,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &createdBy, &t.ExpiresAt, &revokedAt, &revokedBy, &repl, &t.CreatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}

	t.CreatedByIP = createdBy.String
	t.RevokedByIP = revokedBy.String
	t.ReplacedBy = repl.String
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.RevokedAt = nullTime(revokedAt)
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, id, revokedByIP, replacedBy string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = $1, revoked_by_ip = $2, replaced_by = $3
		WHERE id = $4 AND revoked_at IS NULL`,
		at.UTC(), nullString(revokedByIP), nullString(replacedBy), id,
	))
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL`,
		at.UTC(), userID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
