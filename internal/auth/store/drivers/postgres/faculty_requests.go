package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
)

type facultyRequestsRepo struct {
	db dbtx
}

const facultyRequestColumns = `id, user_id, department, designation, expertise, status,
	reviewed_by, reviewed_at, created_at, updated_at`

func scanFacultyRequest(row interface{ Scan(dest ...any) error }) (domain.FacultyRequest, error) {
	var (
		r          domain.FacultyRequest
		status     string
		reviewedBy sql.NullString
		reviewedAt sql.NullTime
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Department, &r.Designation, &r.Expertise, &status,
		&reviewedBy, &reviewedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return domain.FacultyRequest{}, mapNotFound(err)
	}
	r.Status = domain.FacultyStatus(status)
	r.ReviewedBy = reviewedBy.String
	r.ReviewedAt = nullTime(reviewedAt)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}

func (r *facultyRequestsRepo) CreateFacultyRequest(ctx context.Context, fr domain.FacultyRequest) error {
	var reviewedAt sql.NullTime
	if fr.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: fr.ReviewedAt.UTC(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO faculty_requests (id, user_id, department, designation, expertise, status,
			reviewed_by, reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		fr.ID, fr.UserID, fr.Department, fr.Designation, fr.Expertise, string(fr.Status),
		nullString(fr.ReviewedBy), reviewedAt, fr.CreatedAt.UTC(), fr.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *facultyRequestsRepo) GetFacultyRequest(ctx context.Context, id string) (domain.FacultyRequest, error) {
	return scanFacultyRequest(r.db.QueryRowContext(ctx,
		`SELECT `+facultyRequestColumns+` FROM faculty_requests WHERE id = $1`, id))
}

func (r *facultyRequestsRepo) ListFacultyRequests(ctx context.Context, status domain.FacultyStatus) ([]domain.FacultyRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+facultyRequestColumns+`
		FROM faculty_requests
		WHERE status = $1
		ORDER BY created_at, id`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.FacultyRequest{}
	for rows.Next() {
		fr, err := scanFacultyRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

func (r *facultyRequestsRepo) ReviewFacultyRequest(ctx context.Context, id string, status domain.FacultyStatus, reviewedBy string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE faculty_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3, updated_at = $3
		WHERE id = $4`,
		string(status), nullString(reviewedBy), at.UTC(), id,
	))
}
