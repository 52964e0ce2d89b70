package http

import (
	"net/http"

	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/pkg/authsdk"
	"github.com/capmanage/capmanage/pkg/httpx"
)

// Sent for resend and reset requests whether or not the account exists, so
// the endpoints cannot be used to probe for registered emails.
const (
	msgVerificationSent = "If the account exists and is not yet verified, a verification email has been sent."
	msgResetSent        = "If the account exists, a password reset email has been sent."
)

// AccountHandler serves the self-service account endpoints.
type AccountHandler struct {
	AccountService *service.AccountService
}

// HandleRegister godoc
//
//	@Summary		Register a student account
//	@Description	Creates an active, unverified student account and emails a verification link.
//	@Description	The account cannot log in until the email is verified.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest						true	"name, email, password"
//	@Success		201		{object}	authsdk.Envelope[authsdk.UserResponse]		"created account"
//	@Failure		400		{object}	authsdk.ErrorEnvelope						"invalid_request, weak_password"
//	@Failure		409		{object}	authsdk.ErrorEnvelope						"duplicate_email"
//	@Failure		429		{object}	authsdk.ErrorEnvelope						"rate_limited"
//	@Failure		503		{object}	authsdk.ErrorEnvelope						"mail_delivery_failed"
//	@Router			/api/v1/auth/register [post].
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.AccountService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, toUserResponse(u))
}

// HandleRegisterFaculty godoc
//
//	@Summary		Request a faculty account
//	@Description	Creates an inactive faculty account with a pending review request and emails a
//	@Description	verification link. Login is refused with faculty_pending until an admin approves.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterFacultyRequest						true	"account and faculty details"
//	@Success		202		{object}	authsdk.Envelope[authsdk.FacultyRequestResponse]	"pending request"
//	@Failure		400		{object}	authsdk.ErrorEnvelope								"invalid_request, weak_password"
//	@Failure		409		{object}	authsdk.ErrorEnvelope								"duplicate_email"
//	@Failure		429		{object}	authsdk.ErrorEnvelope								"rate_limited"
//	@Failure		503		{object}	authsdk.ErrorEnvelope								"mail_delivery_failed"
//	@Router			/api/v1/auth/register/faculty [post].
func (h *AccountHandler) HandleRegisterFaculty(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterFacultyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	review, err := h.AccountService.RegisterFaculty(r.Context(), service.RegisterFacultyInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Department:  req.Department,
		Designation: req.Designation,
		Expertise:   req.Expertise,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusAccepted, toFacultyRequestResponse(review))
}

// HandleVerifyEmail godoc
//
//	@Summary		Verify an email address
//	@Description	Redeems an email verification token. Each token can be redeemed once.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TokenRequest						true	"token from the verification email"
//	@Success		200		{object}	authsdk.Envelope[authsdk.UserResponse]		"verified account"
//	@Failure		400		{object}	authsdk.ErrorEnvelope						"invalid_signature, expired, kind_mismatch, malformed_token"
//	@Failure		404		{object}	authsdk.ErrorEnvelope						"not_found"
//	@Failure		409		{object}	authsdk.ErrorEnvelope						"already_used"
//	@Router			/api/v1/auth/verify-email [post].
func (h *AccountHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.AccountService.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toUserResponse(u))
}

// HandleResendVerification godoc
//
//	@Summary		Resend the verification email
//	@Description	Always answers 200 so the endpoint does not reveal which emails are registered.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EmailRequest						true	"email"
//	@Success		200		{object}	authsdk.Envelope[authsdk.MessageResponse]
//	@Failure		400		{object}	authsdk.ErrorEnvelope	"invalid_request"
//	@Failure		429		{object}	authsdk.ErrorEnvelope	"rate_limited"
//	@Router			/api/v1/auth/verify-email/resend [post].
func (h *AccountHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.AccountService.ResendVerification(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, message(msgVerificationSent))
}

// HandleRequestPasswordReset godoc
//
//	@Summary		Request a password reset
//	@Description	Emails a single-use reset link. Always answers 200 so the endpoint does not reveal which emails are registered.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.EmailRequest						true	"email"
//	@Success		200		{object}	authsdk.Envelope[authsdk.MessageResponse]
//	@Failure		400		{object}	authsdk.ErrorEnvelope	"invalid_request"
//	@Failure		429		{object}	authsdk.ErrorEnvelope	"rate_limited"
//	@Router			/api/v1/auth/password/request-reset [post].
func (h *AccountHandler) HandleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.AccountService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, message(msgResetSent))
}

// HandleResetPassword godoc
//
//	@Summary		Reset a password
//	@Description	Redeems a password reset token, sets the new password, clears any lockout and
//	@Description	revokes every refresh token of the account.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ResetPasswordRequest				true	"token, password"
//	@Success		200		{object}	authsdk.Envelope[authsdk.MessageResponse]
//	@Failure		400		{object}	authsdk.ErrorEnvelope	"invalid_request, weak_password, invalid_signature, expired, kind_mismatch"
//	@Failure		409		{object}	authsdk.ErrorEnvelope	"already_used"
//	@Router			/api/v1/auth/password/reset [post].
func (h *AccountHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.AccountService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, message("Password has been reset. Please log in with the new password."))
}
