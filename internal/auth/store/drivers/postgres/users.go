package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, name, password_hash, role, is_active, is_email_verified,
	faculty_status, failed_login_attempts, locked_at, last_login_at, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u                   domain.User
		role, facultyStatus string
		lockedAt, lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.IsActive, &u.IsEmailVerified,
		&facultyStatus, &u.FailedLoginAttempts, &lockedAt, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.FacultyStatus = domain.FacultyStatus(facultyStatus)
	u.LockedAt = nullTime(lockedAt)
	u.LastLoginAt = nullTime(lastLogin)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, domain.NormalizeEmail(email)))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, is_active, is_email_verified,
			faculty_status, failed_login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)`,
		u.ID, domain.NormalizeEmail(u.Email), u.Name, u.PasswordHash, string(u.Role),
		u.IsActive, u.IsEmailVerified, string(u.FacultyStatus), u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID string, activate bool, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET is_email_verified = TRUE,
		    is_active = CASE WHEN $1::boolean THEN TRUE ELSE is_active END,
		    updated_at = $2
		WHERE id = $3 AND NOT is_email_verified`,
		activate, at.UTC(), userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	if _, err := r.GetUserByID(ctx, userID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1, failed_login_attempts = 0, locked_at = NULL, updated_at = $2
		WHERE id = $3`,
		hash, at.UTC(), userID,
	))
}

// RecordLoginFailure increments and locks in one statement so two
// concurrent failures cannot both read the old count.
func (r *usersRepo) RecordLoginFailure(ctx context.Context, userID string, lockAfter int, at time.Time) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_at = CASE
		        WHEN locked_at IS NULL AND failed_login_attempts + 1 >= $1 THEN $2
		        ELSE locked_at
		    END,
		    updated_at = $2
		WHERE id = $3
		RETURNING `+userColumns,
		lockAfter, at.UTC(), userID,
	))
}

func (r *usersRepo) RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, last_login_at = $1, updated_at = $1
		WHERE id = $2`,
		at.UTC(), userID,
	))
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET is_active = $1,
		    failed_login_attempts = CASE WHEN $1 THEN 0 ELSE failed_login_attempts END,
		    locked_at = CASE WHEN $1 THEN NULL ELSE locked_at END,
		    updated_at = $2
		WHERE id = $3`,
		active, at.UTC(), userID,
	))
}

func (r *usersRepo) SetRole(ctx context.Context, userID string, role domain.Role, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
		string(role), at.UTC(), userID,
	))
}

func (r *usersRepo) SetFacultyStatus(ctx context.Context, userID string, status domain.FacultyStatus, active bool, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET faculty_status = $1, is_active = $2, updated_at = $3 WHERE id = $4`,
		string(status), active, at.UTC(), userID,
	))
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
