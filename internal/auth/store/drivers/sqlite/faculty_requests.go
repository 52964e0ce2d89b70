package sqlite

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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFacultyRequest(row rowScanner) (domain.FacultyRequest, error) {
	var (
		r                    domain.FacultyRequest
		status               string
		reviewedBy           sql.NullString
		reviewedAt           sql.NullInt64
		createdAt, updatedAt int64
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Department, &r.Designation, &r.Expertise, &status,
		&reviewedBy, &reviewedAt, &createdAt, &updatedAt)
	if err != nil {
		return domain.FacultyRequest{}, mapNotFound(err)
	}
	r.Status = domain.FacultyStatus(status)
	r.ReviewedBy = reviewedBy.String
	r.ReviewedAt = mapNullMillis(reviewedAt)
	r.CreatedAt = fromMillis(createdAt)
	r.UpdatedAt = fromMillis(updatedAt)
	return r, nil
}

func (r *facultyRequestsRepo) CreateFacultyRequest(ctx context.Context, fr domain.FacultyRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO faculty_requests (id, user_id, department, designation, expertise, status,
			reviewed_by, reviewed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fr.ID, fr.UserID, fr.Department, fr.Designation, fr.Expertise, string(fr.Status),
		mapStringNull(fr.ReviewedBy), mapOptionalMillis(fr.ReviewedAt),
		toMillis(fr.CreatedAt), toMillis(fr.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *facultyRequestsRepo) GetFacultyRequest(ctx context.Context, id string) (domain.FacultyRequest, error) {
	return scanFacultyRequest(r.db.QueryRowContext(ctx,
		`SELECT `+facultyRequestColumns+` FROM faculty_requests WHERE id = ?`, id))
}

func (r *facultyRequestsRepo) ListFacultyRequests(ctx context.Context, status domain.FacultyStatus) ([]domain.FacultyRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+facultyRequestColumns+`
		FROM faculty_requests
		WHERE status = ?
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
		SET status = ?, reviewed_by = ?, reviewed_at = ?, updated_at = ?
		WHERE id = ?`,
		string(status), mapStringNull(reviewedBy), toMillis(at), toMillis(at), id,
	))
}
