package http

import (
	"net/http"

	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/pkg/authsdk"
	"github.com/capmanage/capmanage/pkg/httpx"
	"github.com/capmanage/capmanage/pkg/slogx"
)

// SessionHandler serves login, refresh and logout.
type SessionHandler struct {
	TokenService *service.TokenService
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Exchanges email and password for an access token and a refresh token.
//	@Description	Five failed attempts in a row lock the account until the password is reset.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest						true	"email, password"
//	@Success		200		{object}	authsdk.Envelope[authsdk.SessionResponse]	"token pair and account"
//	@Failure		400		{object}	authsdk.ErrorEnvelope						"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorEnvelope						"invalid_credentials"
//	@Failure		403		{object}	authsdk.ErrorEnvelope						"account_inactive, email_not_verified"
//	@Failure		423		{object}	authsdk.ErrorEnvelope						"account_locked"
//	@Failure		429		{object}	authsdk.ErrorEnvelope						"rate_limited"
//	@Header			200		{string}	Cache-Control								"no-store"
//	@Router			/api/v1/auth/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WithMessage("email and password are required").WriteError(w)
		return
	}

	s, err := h.TokenService.Login(r.Context(), req.Email, req.Password, httpx.IPKeyExtractor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toSessionResponse(s))
}

// HandleRefresh godoc
//
//	@Summary		Refresh a session
//	@Description	Exchanges a refresh token for a new pair. The presented refresh token is revoked,
//	@Description	so each refresh token works exactly once.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest						true	"refreshToken"
//	@Success		200		{object}	authsdk.Envelope[authsdk.SessionResponse]	"rotated token pair"
//	@Failure		400		{object}	authsdk.ErrorEnvelope						"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorEnvelope						"invalid_refresh_token"
//	@Failure		403		{object}	authsdk.ErrorEnvelope						"account_inactive, email_not_verified"
//	@Failure		423		{object}	authsdk.ErrorEnvelope						"account_locked"
//	@Header			200		{string}	Cache-Control								"no-store"
//	@Router			/api/v1/auth/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WithMessage("refreshToken is required").WriteError(w)
		return
	}

	s, err := h.TokenService.Refresh(r.Context(), req.RefreshToken, httpx.IPKeyExtractor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toSessionResponse(s))
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Revokes the refresh token. Unknown, expired and already revoked tokens also get 200,
//	@Description	so the endpoint cannot be used to test tokens.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest						true	"refreshToken"
//	@Success		200		{object}	authsdk.Envelope[authsdk.MessageResponse]
//	@Failure		400		{object}	authsdk.ErrorEnvelope	"invalid_request"
//	@Router			/api/v1/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.TokenService.Logout(r.Context(), req.RefreshToken, httpx.IPKeyExtractor(r)); err != nil {
		// Only store failures get here; the client still drops its tokens.
		slogx.FromContext(r.Context()).Warn("logout failed", "err", err)
	}

	httpx.WriteData(w, http.StatusOK, message("Logged out"))
}
