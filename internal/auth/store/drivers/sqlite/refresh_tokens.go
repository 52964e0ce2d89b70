package sqlite

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
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, mapStringNull(t.CreatedByIP), toMillis(t.ExpiresAt), toMillis(t.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshToken(ctx context.Context, id string) (domain.RefreshToken, error) {
	var (
		t                          domain.RefreshToken
		createdBy, revokedBy, repl sql.NullString
		revokedAt                  sql.NullInt64
		expiresAt, createdAt       int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, created_by_ip, expires_at, revoked_at, revoked_by_ip, replaced_by, created_at
		FROM refresh_tokens WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &createdBy, &expiresAt, &revokedAt, &revokedBy, &repl, &createdAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}

	t.CreatedByIP = createdBy.String
	t.RevokedByIP = revokedBy.String
	t.ReplacedBy = repl.String
	t.ExpiresAt = fromMillis(expiresAt)
	t.RevokedAt = mapNullMillis(revokedAt)
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, id, revokedByIP, replacedBy string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = ?, revoked_by_ip = ?, replaced_by = ?
		WHERE id = ? AND revoked_at IS NULL`,
		toMillis(at), mapStringNull(revokedByIP), mapStringNull(replacedBy), id,
	))
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		toMillis(at), userID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < ?`, toMillis(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
