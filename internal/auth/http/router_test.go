package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/internal/auth/store/drivers/sqlite"
	"github.com/capmanage/capmanage/pkg/authsdk"
	"github.com/capmanage/capmanage/pkg/cryptox"
	"github.com/capmanage/capmanage/pkg/httpx"
	"github.com/capmanage/capmanage/pkg/jwtx"
	"github.com/capmanage/capmanage/pkg/mailx"
	"github.com/capmanage/capmanage/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testPassword = "Sup3r-secret!"

func TestMain(m *testing.M) {
	// The handlers are exercised far more often than the production limits
	// allow from one address.
	relaxed := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	httpx.StrictLimit = relaxed
	httpx.ModerateLimit = relaxed
	httpx.LenientLimit = relaxed
	os.Exit(m.Run())
}

type mailbox struct {
	mu   sync.Mutex
	sent []mailx.Message
}

func (m *mailbox) Send(_ context.Context, msg mailx.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

var linkToken = regexp.MustCompile(`\?token=([^\s"<]+)`)

func (m *mailbox) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no email sent")
	match := linkToken.FindStringSubmatch(m.sent[len(m.sent)-1].Text)
	require.Len(t, match, 2)
	tok, err := url.QueryUnescape(match[1])
	require.NoError(t, err)
	return tok
}

func (m *mailbox) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type testServer struct {
	router *Router
	mail   *mailbox
	store  *sqlite.Store
	hasher *cryptox.PasswordHasher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	access := []byte(strings.Repeat("a", 32))
	ev, err := jwtx.DeriveSecret(access, jwtx.KindEmailVerification)
	require.NoError(t, err)
	pr, err := jwtx.DeriveSecret(access, jwtx.KindPasswordReset)
	require.NoError(t, err)
	issuer, err := jwtx.NewIssuer(jwtx.IssuerOptions{
		Secrets: jwtx.Secrets{
			Access:            access,
			Refresh:           []byte(strings.Repeat("r", 32)),
			EmailVerification: ev,
			PasswordReset:     pr,
			Version:           1,
		},
		Issuer: "capmanage-auth-test",
	})
	require.NoError(t, err)

	hasher, err := cryptox.NewPasswordHasher(cryptox.MinBcryptCost, []byte("test-pepper"))
	require.NoError(t, err)

	mail := &mailbox{}
	credentials := &service.CredentialService{Store: st}
	verification := &service.VerificationService{Store: st, Tokens: issuer}

	r := NewRouter("test", st, slogx.Discard())
	r.CredentialService = credentials
	r.AccountService = &service.AccountService{
		Store:           st,
		Credentials:     credentials,
		Verification:    verification,
		Hasher:          hasher,
		Mailer:          mail,
		FrontendBaseURL: "http://localhost:3000",
	}
	r.TokenService = &service.TokenService{Store: st, Tokens: issuer, Hasher: hasher}
	r.SessionService = &service.SessionService{Store: st, Tokens: issuer}
	r.AdminService = &service.AdminService{Store: st, Mailer: mail, FrontendBaseURL: "http://localhost:3000"}
	r.ApplyRoutes()

	return &testServer{router: r, mail: mail, store: st, hasher: hasher}
}

type response struct {
	code int
	body []byte
}

func (r response) data(t *testing.T, v any) {
	t.Helper()
	env := authsdk.Envelope[json.RawMessage]{}
	require.NoError(t, json.Unmarshal(r.body, &env), string(r.body))
	require.True(t, env.Success, string(r.body))
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func (r response) errBody(t *testing.T) authsdk.ErrorBody {
	t.Helper()
	var env authsdk.ErrorEnvelope
	require.NoError(t, json.Unmarshal(r.body, &env), string(r.body))
	require.False(t, env.Success)
	require.Equal(t, r.code, env.Error.Code)
	return env.Error
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) response {
	t.Helper()

	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return response{code: rec.Code, body: rec.Body.Bytes()}
}

// registerVerified registers an account and redeems its verification email.
func (s *testServer) registerVerified(t *testing.T, email string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/v1/auth/register", authsdk.RegisterRequest{
		Name: "Ada Lovelace", Email: email, Password: testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.code, string(resp.body))

	resp = s.do(t, http.MethodPost, "/api/v1/auth/verify-email", authsdk.TokenRequest{Token: s.mail.lastToken(t)})
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
}

func (s *testServer) login(t *testing.T, email, password string) (authsdk.SessionResponse, response) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/v1/auth/login", authsdk.LoginRequest{Email: email, Password: password})
	var out authsdk.SessionResponse
	if resp.code == http.StatusOK {
		resp.data(t, &out)
	}
	return out, resp
}

func TestRegisterVerifyLogin(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/v1/auth/register", authsdk.RegisterRequest{
		Name: "Ada Lovelace", Email: "Ada@Example.com", Password: testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.code, string(resp.body))
	var user authsdk.UserResponse
	resp.data(t, &user)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, "student", user.Role)
	require.False(t, user.IsEmailVerified)
	require.NotContains(t, string(resp.body), "password")

	// Unverified accounts cannot log in.
	_, resp = s.login(t, "ada@example.com", testPassword)
	require.Equal(t, http.StatusForbidden, resp.code)
	require.Equal(t, authsdk.ReasonEmailNotVerified, resp.errBody(t).Reason)

	token := s.mail.lastToken(t)
	resp = s.do(t, http.MethodPost, "/api/v1/auth/verify-email", authsdk.TokenRequest{Token: token})
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	resp.data(t, &user)
	require.True(t, user.IsEmailVerified)

	// Second redemption of the same token.
	resp = s.do(t, http.MethodPost, "/api/v1/auth/verify-email", authsdk.TokenRequest{Token: token})
	require.Equal(t, http.StatusConflict, resp.code)
	require.Equal(t, authsdk.ReasonAlreadyUsed, resp.errBody(t).Reason)

	sess, resp := s.login(t, "ADA@example.com", testPassword)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	require.Equal(t, "Bearer", sess.TokenType)
	require.NotEmpty(t, sess.AccessToken)
	require.NotEmpty(t, sess.RefreshToken)
	require.Equal(t, user.ID, sess.User.ID)

	resp = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "Authorization", "Bearer "+sess.AccessToken)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	var me authsdk.UserResponse
	resp.data(t, &me)
	require.Equal(t, user.ID, me.ID)
	require.NotNil(t, me.LastLoginAt)
}

func TestRegisterErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	t.Run("weak password lists every rule", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/v1/auth/register", authsdk.RegisterRequest{
			Name: "Ada", Email: "weak@example.com", Password: "short",
		})
		require.Equal(t, http.StatusBadRequest, resp.code)
		body := resp.errBody(t)
		require.Equal(t, authsdk.ReasonWeakPassword, body.Reason)

		var rules []string
		require.NoError(t, json.Unmarshal(body.Details, &rules))
		require.GreaterOrEqual(t, len(rules), 3)
	})

	t.Run("invalid email", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/v1/auth/register", authsdk.RegisterRequest{
			Name: "Ada", Email: "not-an-email", Password: testPassword,
		})
		require.Equal(t, http.StatusBadRequest, resp.code)
		require.Equal(t, authsdk.ReasonInvalidRequest, resp.errBody(t).Reason)
	})

	t.Run("malformed json", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/v1/auth/register", `{"email":`)
		require.Equal(t, http.StatusBadRequest, resp.code)
		require.Equal(t, authsdk.ReasonInvalidRequest, resp.errBody(t).Reason)
	})

	t.Run("duplicate email ignores case", func(t *testing.T) {
		req := authsdk.RegisterRequest{Name: "Ada", Email: "dup@example.com", Password: testPassword}
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/auth/register", req).code)

		req.Email = "DUP@example.com"
		resp := s.do(t, http.MethodPost, "/api/v1/auth/register", req)
		require.Equal(t, http.StatusConflict, resp.code)
		require.Equal(t, authsdk.ReasonDuplicateEmail, resp.errBody(t).Reason)
	})
}

func TestVerifyEmailTokenErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.registerVerified(t, "kinds@example.com")
	sess, _ := s.login(t, "kinds@example.com", testPassword)

	cases := []struct {
		name   string
		token  string
		reason string
	}{
		{"garbage", "not-a-jwt", authsdk.ReasonMalformedToken},
		{"access token", sess.AccessToken, authsdk.ReasonKindMismatch},
		{"tampered", sess.AccessToken[:len(sess.AccessToken)-2] + "xx", authsdk.ReasonInvalidSignature},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := s.do(t, http.MethodPost, "/api/v1/auth/verify-email", authsdk.TokenRequest{Token: tc.token})
			require.Equal(t, http.StatusBadRequest, resp.code, string(resp.body))
			require.Equal(t, tc.reason, resp.errBody(t).Reason)
		})
	}
}

func TestRefreshRotationAndLogout(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.registerVerified(t, "rotate@example.com")
	first, _ := s.login(t, "rotate@example.com", testPassword)

	resp := s.do(t, http.MethodPost, "/api/v1/auth/refresh", authsdk.RefreshRequest{RefreshToken: first.RefreshToken})
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	var second authsdk.SessionResponse
	resp.data(t, &second)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated-out token no longer works.
	resp = s.do(t, http.MethodPost, "/api/v1/auth/refresh", authsdk.RefreshRequest{RefreshToken: first.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.code)
	require.Equal(t, authsdk.ReasonInvalidRefresh, resp.errBody(t).Reason)

	// An access token is not a refresh token.
	resp = s.do(t, http.MethodPost, "/api/v1/auth/refresh", authsdk.RefreshRequest{RefreshToken: second.AccessToken})
	require.Equal(t, http.StatusUnauthorized, resp.code)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/logout", authsdk.RefreshRequest{RefreshToken: second.RefreshToken})
	require.Equal(t, http.StatusOK, resp.code)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/refresh", authsdk.RefreshRequest{RefreshToken: second.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.code)

	// Logout never reveals whether a token was valid.
	resp = s.do(t, http.MethodPost, "/api/v1/auth/logout", authsdk.RefreshRequest{RefreshToken: "garbage"})
	require.Equal(t, http.StatusOK, resp.code)
}

func TestLockoutAndReset(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.registerVerified(t, "locked@example.com")

	for i := range service.DefaultMaxFailedLogins - 1 {
		_, resp := s.login(t, "locked@example.com", "wrong-password")
		require.Equal(t, http.StatusUnauthorized, resp.code, "attempt %d", i+1)
		require.Equal(t, authsdk.ReasonInvalidCredentials, resp.errBody(t).Reason)
	}
	_, resp := s.login(t, "locked@example.com", "wrong-password")
	require.Equal(t, http.StatusLocked, resp.code)

	// Even the right password is refused now.
	_, resp = s.login(t, "locked@example.com", testPassword)
	require.Equal(t, http.StatusLocked, resp.code)
	require.Equal(t, authsdk.ReasonAccountLocked, resp.errBody(t).Reason)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/password/request-reset", authsdk.EmailRequest{Email: "locked@example.com"})
	require.Equal(t, http.StatusOK, resp.code)
	token := s.mail.lastToken(t)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/password/reset", authsdk.ResetPasswordRequest{Token: token, Password: "weak"})
	require.Equal(t, http.StatusBadRequest, resp.code)
	require.Equal(t, authsdk.ReasonWeakPassword, resp.errBody(t).Reason)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/password/reset", authsdk.ResetPasswordRequest{Token: token, Password: "N3w-secret!"})
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))

	resp = s.do(t, http.MethodPost, "/api/v1/auth/password/reset", authsdk.ResetPasswordRequest{Token: token, Password: "An0ther-secret!"})
	require.Equal(t, http.StatusConflict, resp.code)

	_, resp = s.login(t, "locked@example.com", testPassword)
	require.Equal(t, http.StatusUnauthorized, resp.code)
	_, resp = s.login(t, "locked@example.com", "N3w-secret!")
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
}

func TestSilentEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.registerVerified(t, "known@example.com")
	before := s.mail.count()

	for _, path := range []string{"/api/v1/auth/verify-email/resend", "/api/v1/auth/password/request-reset"} {
		resp := s.do(t, http.MethodPost, path, authsdk.EmailRequest{Email: "nobody@example.com"})
		require.Equal(t, http.StatusOK, resp.code, path)

		// Already verified: no new verification mail either.
		if strings.Contains(path, "resend") {
			resp = s.do(t, http.MethodPost, path, authsdk.EmailRequest{Email: "known@example.com"})
			require.Equal(t, http.StatusOK, resp.code, path)
		}
	}
	require.Equal(t, before, s.mail.count())
}

func TestMeRequiresAuthentication(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.registerVerified(t, "me@example.com")
	sess, _ := s.login(t, "me@example.com", testPassword)

	resp := s.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, resp.code)
	require.Equal(t, authsdk.ReasonUnauthenticated, resp.errBody(t).Reason)

	resp = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "Authorization", "Bearer "+sess.RefreshToken)
	require.Equal(t, http.StatusUnauthorized, resp.code)

	// The browser frontend keeps the access token in a cookie.
	resp = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "Cookie", fmt.Sprintf("%s=%s", httpx.AccessTokenCookie, sess.AccessToken))
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, resp.code)

	var health authsdk.HealthResponse
	require.NoError(t, json.Unmarshal(resp.body, &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)

	resp = s.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, resp.code)

	require.NoError(t, s.store.Close())
	resp = s.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.code)
	require.NoError(t, json.Unmarshal(resp.body, &health))
	require.Equal(t, "degraded", health.Status)
	require.True(t, strings.HasPrefix(health.Checks.Database, "error: "))
}
