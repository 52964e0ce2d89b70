package authsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// refreshLeeway refreshes the access token a little before it expires.
const refreshLeeway = 30 * time.Second

// ErrNoRefreshToken is returned when the access token has expired and the
// session has nothing to refresh it with.
var ErrNoRefreshToken = errors.New("access token expired and no refresh token available")

// Session represents an authenticated session with automatic token refresh.
// All Session methods automatically handle token expiration and refresh when needed.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	user         UserResponse
}

// newSession creates a new authenticated session from a login or refresh
// response.
func newSession(client *SDKClient, resp *SessionResponse) *Session {
	s := &Session{client: client}
	s.apply(resp)
	return s
}

// apply stores a freshly issued pair. Callers hold the write lock or own s.
func (s *Session) apply(resp *SessionResponse) {
	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	s.expiresAt = resp.AccessTokenExpiresAt.Add(-refreshLeeway)
	if resp.User.ID != "" {
		s.user = resp.User
	}
}

// getValidToken returns a valid access token, automatically refreshing if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have refreshed)
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

// Refresh rotates the token pair now, regardless of expiry.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return ErrNoRefreshToken
	}

	resp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	s.apply(resp)
	return nil
}

// Logout revokes the session's refresh token. The session is unusable
// afterwards.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	if refreshToken == "" {
		return ErrNoRefreshToken
	}
	return s.client.Logout(ctx, refreshToken)
}

// AccessToken returns the current access token without checking expiration.
// For most use cases, prefer using the Session methods which handle refresh automatically.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token. It changes on every refresh.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns the account as of the last login, refresh or Me call.
func (s *Session) User() UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
