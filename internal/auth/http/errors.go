package http

import (
	"errors"
	"net/http"

	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/pkg/authsdk"
	"github.com/capmanage/capmanage/pkg/httpx"
	"github.com/capmanage/capmanage/pkg/jwtx"
	"github.com/capmanage/capmanage/pkg/slogx"
)

// errorMapping pairs a service or token error with the response it becomes.
// The first match wins, so wrapping errors come before the causes they wrap.
type errorMapping struct {
	err error
	api *authsdk.APIError
}

var errorTable = []errorMapping{
	// Wrappers first: these carry a jwtx cause we do not want to leak.
	{service.ErrUnauthenticated, authsdk.ErrUnauthenticated},
	{service.ErrInvalidRefresh, authsdk.ErrInvalidRefresh},

	{service.ErrInvalidRequest, authsdk.ErrInvalidRequest},
	{service.ErrWeakPassword, authsdk.ErrWeakPassword},
	{service.ErrDuplicateEmail, authsdk.ErrDuplicateEmail},
	{service.ErrAlreadyUsed, authsdk.ErrAlreadyUsed},
	{service.ErrNotFound, authsdk.ErrNotFound},
	{service.ErrInvalidCredentials, authsdk.ErrInvalidCredentials},
	{service.ErrAccountLocked, authsdk.ErrAccountLocked},
	{service.ErrFacultyPending, authsdk.ErrFacultyPending},
	{service.ErrFacultyRejected, authsdk.ErrFacultyRejected},
	{service.ErrAccountInactive, authsdk.ErrAccountInactive},
	{service.ErrEmailNotVerified, authsdk.ErrEmailNotVerified},
	{service.ErrMailDelivery, authsdk.ErrMailDelivery},

	{jwtx.ErrExpired, authsdk.ErrTokenExpired},
	{jwtx.ErrKindMismatch, authsdk.ErrKindMismatch},
	{jwtx.ErrMalformed, authsdk.ErrMalformedToken},
	{jwtx.ErrInvalidSig, authsdk.ErrInvalidSignature},

	// Tokens from another deployment or secret generation look forged to us.
	{jwtx.ErrIssuer, authsdk.ErrInvalidSignature},
	{jwtx.ErrSecretVersion, authsdk.ErrInvalidSignature},
	{jwtx.ErrUnknownKind, authsdk.ErrInvalidSignature},
	{jwtx.ErrNotYetValid, authsdk.ErrInvalidSignature},
}

// apiError maps err to the response the client sees. Anything outside the
// table is an infrastructure failure and becomes server_error.
func apiError(err error) *authsdk.APIError {
	var policy *service.PasswordPolicyError
	if errors.As(err, &policy) {
		return authsdk.ErrWeakPassword.WithDetails(policy.Violations)
	}

	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			if m.api == authsdk.ErrInvalidRequest {
				return m.api.WithMessage(err.Error())
			}
			return m.api
		}
	}
	return authsdk.ErrServerError
}

// writeError logs and writes err. Expected failures are logged at info,
// everything that maps to 5xx at error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	apiErr := apiError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed", "reason", apiErr.Reason, "err", err)
	} else {
		log.Info("request rejected", "reason", apiErr.Reason, "err", err)
	}
	apiErr.WriteError(w)
}

// decodeBody decodes the JSON body into v and writes invalid_request when
// that fails.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		authsdk.ErrInvalidRequest.WithMessage(err.Error()).WriteError(w)
		return false
	}
	return true
}
