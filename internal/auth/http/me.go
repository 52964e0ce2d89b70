package http

import (
	"context"
	"net/http"

	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/pkg/authsdk"
	"github.com/capmanage/capmanage/pkg/httpx"
)

// SessionAuthenticator lets httpx.AuthnMiddleware validate access tokens
// against the user table, so deactivated or locked accounts are rejected
// even while their access token is still unexpired.
func SessionAuthenticator(s *service.SessionService) httpx.Authenticator {
	return httpx.AuthenticatorFunc(func(ctx context.Context, token string) (httpx.Principal, error) {
		u, err := s.Authenticate(ctx, token)
		if err != nil {
			return httpx.Principal{}, err
		}
		return httpx.Principal{UserID: u.ID, Email: u.Email, Role: string(u.Role)}, nil
	})
}

type MeHandler struct {
	CredentialService *service.CredentialService
}

// ServeHTTP godoc
//
//	@Summary		Current user
//	@Description	Returns the account the access token belongs to.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Envelope[authsdk.UserResponse]	"account"
//	@Failure		401	{object}	authsdk.ErrorEnvelope					"unauthenticated"
//	@Router			/api/v1/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := httpx.PrincipalFromContext(ctx)
	if !ok || p.UserID == "" {
		authsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	u, err := h.CredentialService.FindByID(ctx, p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toUserResponse(u))
}
