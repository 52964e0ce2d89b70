package sqlite

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
		u                    domain.User
		role, facultyStatus  string
		lockedAt, lastLogin  sql.NullInt64
		createdAt, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.IsActive, &u.IsEmailVerified,
		&facultyStatus, &u.FailedLoginAttempts, &lockedAt, &lastLogin, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.FacultyStatus = domain.FacultyStatus(facultyStatus)
	u.LockedAt = mapNullMillis(lockedAt)
	u.LastLoginAt = mapNullMillis(lastLogin)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	// The column is COLLATE NOCASE so the unique index serves this lookup.
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, domain.NormalizeEmail(email)))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, is_active, is_email_verified,
			faculty_status, failed_login_attempts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		u.ID, domain.NormalizeEmail(u.Email), u.Name, u.PasswordHash, string(u.Role),
		u.IsActive, u.IsEmailVerified, string(u.FacultyStatus), toMillis(u.CreatedAt), toMillis(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID string, activate bool, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET is_email_verified = 1,
		    is_active = CASE WHEN ? THEN 1 ELSE is_active END,
		    updated_at = ?
		WHERE id = ? AND is_email_verified = 0`,
		activate, toMillis(at), userID,
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

	// Nothing changed: either already verified or no such user.
	if _, err := r.GetUserByID(ctx, userID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, failed_login_attempts = 0, locked_at = NULL, updated_at = ?
		WHERE id = ?`,
		hash, toMillis(at), userID,
	))
}

func (r *usersRepo) RecordLoginFailure(ctx context.Context, userID string, lockAfter int, at time.Time) (domain.User, error) {
	err := requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_at = CASE
		        WHEN locked_at IS NULL AND failed_login_attempts + 1 >= ? THEN ?
		        ELSE locked_at
		    END,
		    updated_at = ?
		WHERE id = ?`,
		lockAfter, toMillis(at), toMillis(at), userID,
	))
	if err != nil {
		return domain.User{}, err
	}
	return r.GetUserByID(ctx, userID)
}

func (r *usersRepo) RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, last_login_at = ?, updated_at = ?
		WHERE id = ?`,
		toMillis(at), toMillis(at), userID,
	))
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET is_active = ?,
		    failed_login_attempts = CASE WHEN ? THEN 0 ELSE failed_login_attempts END,
		    locked_at = CASE WHEN ? THEN NULL ELSE locked_at END,
		    updated_at = ?
		WHERE id = ?`,
		active, active, active, toMillis(at), userID,
	))
}

func (r *usersRepo) SetRole(ctx context.Context, userID string, role domain.Role, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), toMillis(at), userID,
	))
}

func (r *usersRepo) SetFacultyStatus(ctx context.Context, userID string, status domain.FacultyStatus, active bool, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET faculty_status = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		string(status), active, toMillis(at), userID,
	))
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
