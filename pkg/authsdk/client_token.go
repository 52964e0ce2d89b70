package authsdk

import (
	"context"
	"net/http"
)

// LoginRaw calls the login endpoint and returns the token pair as issued.
// Most callers want Login, which wraps the result in a Session.
func (c *SDKClient) LoginRaw(ctx context.Context, email, password string) (*SessionResponse, error) {
	resp, err := c.postJSON(ctx, APIPrefix+"/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	out, err := decodeData[SessionResponse](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is
// revoked by the exchange.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*SessionResponse, error) {
	resp, err := c.postJSON(ctx, APIPrefix+"/refresh", RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	out, err := decodeData[SessionResponse](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes a refresh token. Unknown or already revoked tokens are not
// an error.
func (c *SDKClient) Logout(ctx context.Context, refreshToken string) error {
	resp, err := c.postJSON(ctx, APIPrefix+"/logout", RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}

	_, err = decodeData[MessageResponse](resp, http.StatusOK)
	return err
}
