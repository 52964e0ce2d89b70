package service

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store/drivers/sqlite"
	"github.com/capmanage/capmanage/pkg/cryptox"
	"github.com/capmanage/capmanage/pkg/jwtx"
	"github.com/capmanage/capmanage/pkg/mailx"
	"github.com/stretchr/testify/require"
)

const testPassword = "Sup3r-secret!"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailx.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailx.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last(t *testing.T) mailx.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no email sent")
	return m.sent[len(m.sent)-1]
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var linkToken = regexp.MustCompile(`\?token=([^\s"<]+)`)

// tokenFromMail pulls the token out of the link in the plain text part.
func tokenFromMail(t *testing.T, msg mailx.Message) string {
	t.Helper()
	m := linkToken.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2, "no link in %q", msg.Text)
	tok, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	return tok
}

type harness struct {
	store  *sqlite.Store
	clock  *fakeClock
	issuer *jwtx.Issuer
	hasher *cryptox.PasswordHasher
	mailer *recordingMailer

	credentials  *CredentialService
	verification *VerificationService
	tokens       *TokenService
	accounts     *AccountService
	sessions     *SessionService
	admin        *AdminService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	clock := &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}

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
		TTLs: jwtx.TTLs{
			Access:            15 * time.Minute,
			Refresh:           7 * 24 * time.Hour,
			EmailVerification: 30 * time.Minute,
			PasswordReset:     30 * time.Minute,
		},
		Now: clock.Now,
	})
	require.NoError(t, err)

	hasher, err := cryptox.NewPasswordHasher(cryptox.MinBcryptCost, []byte("test-pepper"))
	require.NoError(t, err)

	h := &harness{store: s, clock: clock, issuer: issuer, hasher: hasher, mailer: &recordingMailer{}}
	h.credentials = &CredentialService{Store: s, Clock: clock.Now}
	h.verification = &VerificationService{Store: s, Tokens: issuer, Clock: clock.Now}
	h.tokens = &TokenService{Store: s, Tokens: issuer, Hasher: hasher, Clock: clock.Now}
	h.sessions = &SessionService{Store: s, Tokens: issuer}
	h.accounts = &AccountService{
		Store:           s,
		Credentials:     h.credentials,
		Verification:    h.verification,
		Hasher:          hasher,
		Mailer:          h.mailer,
		Clock:           clock.Now,
		FrontendBaseURL: "http://localhost:3000",
	}
	h.admin = &AdminService{Store: s, Mailer: h.mailer, Clock: clock.Now, FrontendBaseURL: "http://localhost:3000"}
	return h
}

// createUser stores a user with testPassword. Options tweak the record.
func (h *harness) createUser(t *testing.T, email string, opts ...func(*NewUser)) domain.User {
	t.Helper()
	hash, err := h.hasher.Hash(testPassword)
	require.NoError(t, err)

	in := NewUser{
		Email:         email,
		Name:          "Test User",
		PasswordHash:  hash,
		Role:          domain.RoleStudent,
		Active:        true,
		EmailVerified: true,
	}
	for _, o := range opts {
		o(&in)
	}
	u, err := h.credentials.CreateUser(context.Background(), in)
	require.NoError(t, err)
	return u
}

func unverified(in *NewUser) { in.EmailVerified = false }

func inactive(in *NewUser) { in.Active = false }

func (h *harness) login(t *testing.T, email string) Session {
	t.Helper()
	sess, err := h.tokens.Login(context.Background(), email, testPassword, "127.0.0.1")
	require.NoError(t, err)
	return sess
}

var errBoom = errors.New("boom")
