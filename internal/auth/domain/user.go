package domain

import (
	"strings"
	"time"
)

// Role is the CapManage role of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleFaculty:
		return true
	default:
		return false
	}
}

// FacultyStatus tracks a faculty account through admin review. Users of
// other roles carry FacultyNone.
type FacultyStatus string

const (
	FacultyNone     FacultyStatus = ""
	FacultyPending  FacultyStatus = "pending"
	FacultyApproved FacultyStatus = "approved"
	FacultyRejected FacultyStatus = "rejected"
)

// Reviewed reports whether s is a final review decision.
func (s FacultyStatus) Reviewed() bool {
	return s == FacultyApproved || s == FacultyRejected
}

type User struct {
	ID                  string
	Email               string // stored lower-cased, unique ignoring case
	Name                string
	PasswordHash        string // bcrypt
	Role                Role
	IsActive            bool
	IsEmailVerified     bool
	FacultyStatus       FacultyStatus
	FailedLoginAttempts int
	LockedAt            *time.Time
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked reports whether the account is locked out after too many failed
// logins.
func (u User) IsLocked() bool { return u.LockedAt != nil }

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
