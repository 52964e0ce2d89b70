package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// APIPrefix is where the authentication endpoints are mounted.
const APIPrefix = "/api/v1/auth"

// SDKClient is a client for the CapManage authentication service.
// It provides access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates with email and password and returns a Session.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.LoginRaw(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// AuthenticateWithRefreshToken creates an authenticated session from an
// existing refresh token. The token is rotated in the process, so the one
// passed in is no longer valid afterwards.
func (c *SDKClient) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	resp, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// NewSessionFromTokens creates an authenticated session from existing tokens.
// This is useful when you already have tokens from a previous login (e.g.,
// stored in a browser cookie or a database).
// The session will still perform auto-refresh when the access token expires.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string, accessExpiresAt time.Time) *Session {
	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    accessExpiresAt.Add(-refreshLeeway),
	}
}
