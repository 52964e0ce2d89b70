package authsdk

import (
	"encoding/json"
	"time"
)

// Envelope is the body of every response. Data is only set on success and
// Error only on failure.
type Envelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}

// ErrorBody is the error part of a failed response.
type ErrorBody struct {
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Reason  string          `json:"reason,omitempty"`
	Details json.RawMessage `json:"details,omitempty" swaggertype:"object"`
}

// ============================================================================
// Requests
// ============================================================================

// RegisterRequest creates a student account.
type RegisterRequest struct {
	Name     string `json:"name"     example:"Ada Lovelace"`
	Email    string `json:"email"    example:"ada@example.com"`
	Password string `json:"password" example:"Sup3r-secret!"`
}

// RegisterFacultyRequest asks for a faculty account. The account stays
// inactive until an admin approves the request.
type RegisterFacultyRequest struct {
	Name        string `json:"name"        example:"Grace Hopper"`
	Email       string `json:"email"       example:"grace@example.com"`
	Password    string `json:"password"    example:"Sup3r-secret!"`
	Department  string `json:"department"  example:"Computer Science"`
	Designation string `json:"designation" example:"Associate Professor"`
	Expertise   string `json:"expertise,omitempty" example:"Compilers"`
}

// ReviewRequest is an admin decision on a faculty request.
type ReviewRequest struct {
	Status string `json:"status" example:"approved" enums:"approved,rejected"`
}

// RoleRequest changes the role of an account.
type RoleRequest struct {
	Role string `json:"role" example:"faculty" enums:"admin,student,faculty"`
}

// TokenRequest carries an emailed single-use token.
type TokenRequest struct {
	Token string `json:"token"`
}

// EmailRequest names an account by email.
type EmailRequest struct {
	Email string `json:"email" example:"ada@example.com"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email"    example:"ada@example.com"`
	Password string `json:"password" example:"Sup3r-secret!"`
}

// RefreshRequest carries a refresh token, for refresh and logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password" example:"N3w-secret!"`
}

// ============================================================================
// Responses
// ============================================================================

// UserResponse is the public view of an account. The password hash never
// leaves the service.
type UserResponse struct {
	ID              string     `json:"id"              example:"01JABCDEF0123456789ABCDEFG"`
	Name            string     `json:"name"            example:"Ada Lovelace"`
	Email           string     `json:"email"           example:"ada@example.com"`
	Role            string     `json:"role"            example:"student" enums:"admin,student,faculty"`
	IsActive        bool       `json:"isActive"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	FacultyStatus   string     `json:"facultyStatus,omitempty" enums:"pending,approved,rejected"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// SessionResponse is returned by login and refresh.
type SessionResponse struct {
	AccessToken           string       `json:"accessToken"`
	AccessTokenExpiresAt  time.Time    `json:"accessTokenExpiresAt"`
	RefreshToken          string       `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time    `json:"refreshTokenExpiresAt"`
	TokenType             string       `json:"tokenType" example:"Bearer"`
	User                  UserResponse `json:"user"`
}

// FacultyRequestResponse is a faculty request with its account.
type FacultyRequestResponse struct {
	ID          string       `json:"id"          example:"01JABCDEF0123456789ABCDEFG"`
	Department  string       `json:"department"  example:"Computer Science"`
	Designation string       `json:"designation" example:"Associate Professor"`
	Expertise   string       `json:"expertise,omitempty"`
	Status      string       `json:"status"      example:"pending" enums:"pending,approved,rejected"`
	ReviewedBy  string       `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time   `json:"reviewedAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	User        UserResponse `json:"user"`
}

// FacultyRequestListResponse is returned by the faculty request listing.
type FacultyRequestListResponse struct {
	Requests []FacultyRequestResponse `json:"requests"`
}

// MessageResponse acknowledges requests that have nothing else to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints.
type HealthResponse struct {
	// Status is "ok" when healthy, "degraded" when a dependency check failed.
	Status string `json:"status" example:"ok"`

	// Uptime is how long the service has been running.
	Uptime string `json:"uptime" example:"1h2m3s"`

	// Version is the build version of the service.
	Version string `json:"version" example:"dev"`

	// Checks is only set by /readyz.
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database is "ok" or "error: <reason>".
	Database string `json:"database" example:"ok"`
}
