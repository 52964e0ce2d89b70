package authsdk

import (
	"context"
	"net/http"
)

// Me returns the account the session belongs to.
// Automatically refreshes the access token if expired.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, APIPrefix+"/me", nil, nil)
	if err != nil {
		return nil, err
	}

	user, err := decodeData[UserResponse](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	return &user, nil
}
