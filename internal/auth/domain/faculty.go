package domain

import "time"

// FacultyRequest is the review record created by a faculty self-registration.
// There is at most one per user.
type FacultyRequest struct {
	ID          string
	UserID      string
	Department  string
	Designation string
	Expertise   string
	Status      FacultyStatus
	ReviewedBy  string // admin user id, empty until reviewed
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
