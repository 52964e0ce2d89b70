package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/capmanage/capmanage/pkg/slogx"
)

// AccessTokenCookie is the cookie the browser frontend keeps the access
// token in when it is not sent as a bearer header.
const AccessTokenCookie = "accessToken"

// Authenticator turns a presented access token into a Principal.
type Authenticator interface {
	AuthenticateToken(ctx context.Context, token string) (Principal, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, token string) (Principal, error)

func (f AuthenticatorFunc) AuthenticateToken(ctx context.Context, token string) (Principal, error) {
	return f(ctx, token)
}

// AuthnMiddleware rejects requests without a valid access token and puts
// the authenticated Principal into the request context.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := BearerToken(r)
			if raw == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			p, err := a.AuthenticateToken(ctx, raw)
			if err != nil {
				log.Warn("authentication failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = WithPrincipal(ctx, p)
			ctx = slogx.With(ctx, "user_id", p.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken returns the token from the Authorization header, falling back
// to the access token cookie.
func BearerToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		scheme, token, ok := strings.Cut(authz, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireRole lets the request through only when the authenticated caller
// has one of roles. Must run after AuthnMiddleware.
func RequireRole(roles ...string) Middleware {
	want := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}
			if _, ok := want[p.Role]; !ok {
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
}
