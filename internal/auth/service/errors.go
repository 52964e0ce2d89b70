package service

import (
	"errors"
	"fmt"

	"github.com/capmanage/capmanage/internal/auth/store"
)

var (
	// ErrNotFound wraps store.ErrNotFound so callers can match either.
	ErrNotFound = fmt.Errorf("not_found: %w", store.ErrNotFound)

	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrAlreadyUsed        = errors.New("already_used")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrWeakPassword       = errors.New("weak_password")
	ErrMailDelivery       = errors.New("mail_delivery_failed")

	// Account status failures.
	ErrAccountInactive  = errors.New("account_inactive")
	ErrAccountLocked    = errors.New("account_locked")
	ErrEmailNotVerified = errors.New("email_not_verified")
	ErrFacultyPending   = errors.New("faculty_pending")
	ErrFacultyRejected  = errors.New("faculty_rejected")
)
