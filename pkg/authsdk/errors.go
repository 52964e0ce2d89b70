package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/capmanage/capmanage/pkg/httpx"
)

// ============================================================================
// Error Reasons
// ============================================================================

// Reasons are the machine readable codes in the error envelope. Clients
// should switch on these rather than on messages.
const (
	ReasonInvalidRequest     = "invalid_request"
	ReasonWeakPassword       = "weak_password"
	ReasonDuplicateEmail     = "duplicate_email"
	ReasonInvalidSignature   = "invalid_signature"
	ReasonExpired            = "expired"
	ReasonKindMismatch       = "kind_mismatch"
	ReasonMalformedToken     = "malformed_token"
	ReasonAlreadyUsed        = "already_used"
	ReasonNotFound           = "not_found"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonAccountInactive    = "account_inactive"
	ReasonEmailNotVerified   = "email_not_verified"
	ReasonAccountLocked      = "account_locked"
	ReasonFacultyPending     = "faculty_pending"
	ReasonFacultyRejected    = "faculty_rejected"
	ReasonForbidden          = "forbidden"
	ReasonInvalidRefresh     = "invalid_refresh_token"
	ReasonUnauthenticated    = "unauthenticated"
	ReasonRateLimited        = "rate_limited"
	ReasonMailDelivery       = "mail_delivery_failed"
	ReasonServerError        = "server_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is a failed API call. The service writes it with WriteError and
// the SDK returns it from every call that gets an error envelope back.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Reason is one of the Reason* constants.
	Reason string

	// Message is meant for humans.
	Message string

	// Details is extra structured information, such as the failed password
	// rules for weak_password.
	Details any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Is matches any *APIError with the same reason, so errors.Is(err,
// ErrAlreadyUsed) works on errors decoded from a response.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

// WithMessage returns a copy of e carrying msg.
func (e *APIError) WithMessage(msg string) *APIError {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithDetails returns a copy of e carrying details.
func (e *APIError) WithDetails(details any) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

// WriteError writes e as an error envelope.
func (e *APIError) WriteError(w http.ResponseWriter) {
	if e.Details != nil {
		httpx.WriteErrorDetails(w, e.StatusCode, e.Reason, e.Message, e.Details)
		return
	}
	httpx.WriteError(w, e.StatusCode, e.Reason, e.Message)
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Reason:     ReasonInvalidRequest,
		Message:    "the request is malformed or missing required fields",
	}

	// ErrWeakPassword carries the failed rules as Details.
	ErrWeakPassword = &APIError{
		StatusCode: http.StatusBadRequest,
		Reason:     ReasonWeakPassword,
		Message:    "password does not meet the policy",
	}

	ErrDuplicateEmail = &APIError{
		StatusCode: http.StatusConflict,
		Reason:     ReasonDuplicateEmail,
		Message:    "an account with this email already exists",
	}

	ErrInvalidSignature = &APIError{
		StatusCode: http.StatusBadRequest,
		Reason:     ReasonInvalidSignature,
		Message:    "token signature is invalid",
	}

	ErrTokenExpired = &APIError{
		StatusCode: http.StatusBadRequest,
		Reason:     ReasonExpired,
		Message:    "token has expired",
	}

	ErrKindMismatch = &APIError{
		StatusCode: http.StatusBadRequest,
		Reason:     ReasonKindMismatch,
		Message:    "token cannot be used for this operation",
	}

	ErrMalformedToken = &APIError{
		StatusCode: http.StatusBadRequest,
		Reason:     ReasonMalformedToken,
		Message:    "token is malformed",
	}

	ErrAlreadyUsed = &APIError{
		StatusCode: http.StatusConflict,
		Reason:     ReasonAlreadyUsed,
		Message:    "token has already been used",
	}

	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Reason:     ReasonNotFound,
		Message:    "account not found",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Reason:     ReasonInvalidCredentials,
		Message:    "invalid email or password",
	}

	ErrAccountInactive = &APIError{
		StatusCode: http.StatusForbidden,
		Reason:     ReasonAccountInactive,
		Message:    "account is not active",
	}

	ErrEmailNotVerified = &APIError{
		StatusCode: http.StatusForbidden,
		Reason:     ReasonEmailNotVerified,
		Message:    "email address has not been verified",
	}

	ErrAccountLocked = &APIError{
		StatusCode: http.StatusLocked,
		Reason:     ReasonAccountLocked,
		Message:    "account is locked after too many failed logins, reset the password to unlock it",
	}

	ErrFacultyPending = &APIError{
		StatusCode: http.StatusForbidden,
		Reason:     ReasonFacultyPending,
		Message:    "faculty registration is awaiting admin approval",
	}

	ErrFacultyRejected = &APIError{
		StatusCode: http.StatusForbidden,
		Reason:     ReasonFacultyRejected,
		Message:    "faculty registration was rejected",
	}

	// ErrForbidden is written by the role check on admin routes.
	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Reason:     ReasonForbidden,
		Message:    "insufficient role",
	}

	ErrInvalidRefresh = &APIError{
		StatusCode: http.StatusUnauthorized,
		Reason:     ReasonInvalidRefresh,
		Message:    "refresh token is invalid, expired or revoked",
	}

	ErrUnauthenticated = &APIError{
		StatusCode: http.StatusUnauthorized,
		Reason:     ReasonUnauthenticated,
		Message:    "Authentication required",
	}

	ErrRateLimited = &APIError{
		StatusCode: http.StatusTooManyRequests,
		Reason:     ReasonRateLimited,
		Message:    "too many requests",
	}

	ErrMailDelivery = &APIError{
		StatusCode: http.StatusServiceUnavailable,
		Reason:     ReasonMailDelivery,
		Message:    "the email could not be sent, try again later",
	}

	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Reason:     ReasonServerError,
		Message:    "internal server error",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies
// that are not an error envelope, such as a proxy's HTML page, become a
// server_error carrying the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Reason != "" {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Reason:     env.Error.Reason,
			Message:    env.Error.Message,
		}
		if len(env.Error.Details) > 0 {
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Reason:     ReasonServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
