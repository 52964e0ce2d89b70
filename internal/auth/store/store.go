package store

import (
	"context"
	"errors"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are reached through methods so a Tx hands
// out repos bound to the transaction and nothing can start a transaction
// inside another one.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Redemptions() Redemptions
	FacultyRequests() FacultyRequests

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn only tx may be used; going back to
	// the outer Store would wait on the transaction's own connection.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up ignoring case.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists when the email
	// is taken in any casing.
	CreateUser(ctx context.Context, u domain.User) error

	// MarkEmailVerified sets is_email_verified. It reports whether the row
	// changed, so verifying twice is not an error. Returns ErrNotFound for an
	// unknown user. When activate is set the account is activated as well.
	MarkEmailVerified(ctx context.Context, userID string, activate bool, at time.Time) (bool, error)

	// UpdatePasswordHash sets the password hash and clears any lockout.
	UpdatePasswordHash(ctx context.Context, userID, hash string, at time.Time) error

	// RecordLoginFailure bumps failed_login_attempts and sets locked_at once
	// the count reaches lockAfter. Returns the updated user.
	RecordLoginFailure(ctx context.Context, userID string, lockAfter int, at time.Time) (domain.User, error)

	// RecordLoginSuccess resets the failure counter and stamps last_login_at.
	RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error

	// SetActive toggles is_active. Activating also clears any lockout.
	SetActive(ctx context.Context, userID string, active bool, at time.Time) error

	// SetRole changes the role of a user.
	SetRole(ctx context.Context, userID string, role domain.Role, at time.Time) error

	// SetFacultyStatus records a faculty review decision on the user and
	// sets is_active along with it.
	SetFacultyStatus(ctx context.Context, userID string, status domain.FacultyStatus, active bool, at time.Time) error

	// CountUsers returns the number of users.
	CountUsers(ctx context.Context) (int, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshToken returns the record for a jti.
	GetRefreshToken(ctx context.Context, id string) (domain.RefreshToken, error)

	// RevokeRefreshToken revokes an active token. It only matches rows that
	// are not revoked yet and returns ErrNotFound otherwise, which makes it
	// the compare-and-set step of rotation.
	RevokeRefreshToken(ctx context.Context, id, revokedByIP, replacedBy string, at time.Time) error

	// RevokeAllUserRefreshTokens revokes every active token of a user (e.g., password reset).
	RevokeAllUserRefreshTokens(ctx context.Context, userID string, at time.Time) (int64, error)

	// DeleteExpiredRefreshTokens removes tokens that expired before the cutoff.
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}

// Redemptions is the ledger of single-use tokens that have been used.
type Redemptions interface {
	// Redeem records the redemption if the token id has not been redeemed
	// before, in one insert-if-absent statement. Returns ErrAlreadyExists
	// when it has.
	Redeem(ctx context.Context, r domain.Redemption) error

	// GetRedemption returns the ledger entry of a token id.
	GetRedemption(ctx context.Context, tokenID string) (domain.Redemption, error)

	// DeleteExpiredRedemptions prunes entries whose token expired before the
	// cutoff. Such tokens fail verification before the ledger is consulted.
	DeleteExpiredRedemptions(ctx context.Context, before time.Time) (int64, error)
}

// FacultyRequests holds the faculty registrations awaiting or past review.
type FacultyRequests interface {
	// CreateFacultyRequest stores a new request. Returns ErrAlreadyExists
	// when the user already has one.
	CreateFacultyRequest(ctx context.Context, r domain.FacultyRequest) error

	// GetFacultyRequest returns a request by id.
	GetFacultyRequest(ctx context.Context, id string) (domain.FacultyRequest, error)

	// ListFacultyRequests returns the requests in status, oldest first.
	ListFacultyRequests(ctx context.Context, status domain.FacultyStatus) ([]domain.FacultyRequest, error)

	// ReviewFacultyRequest stamps the decision on a request.
	ReviewFacultyRequest(ctx context.Context, id string, status domain.FacultyStatus, reviewedBy string, at time.Time) error
}
