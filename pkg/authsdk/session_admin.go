package authsdk

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// The methods below need a session whose account has the admin role. Other
// callers get ErrForbidden.

// FacultyRequests lists faculty requests in status, oldest first. An empty
// status lists pending requests.
func (s *Session) FacultyRequests(ctx context.Context, status string) ([]FacultyRequestResponse, error) {
	path := APIPrefix + "/faculty/requests"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	out, err := decodeData[FacultyRequestListResponse](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return out.Requests, nil
}

// ReviewFacultyRequest approves or rejects a faculty request.
func (s *Session) ReviewFacultyRequest(ctx context.Context, requestID, status string) (*FacultyRequestResponse, error) {
	return authJSON[FacultyRequestResponse](ctx, s, http.MethodPatch,
		APIPrefix+"/faculty/requests/"+url.PathEscape(requestID), ReviewRequest{Status: status})
}

// ActivateUser activates an account and clears its lockout.
func (s *Session) ActivateUser(ctx context.Context, userID string) (*UserResponse, error) {
	return authJSON[UserResponse](ctx, s, http.MethodPost,
		APIPrefix+"/users/"+url.PathEscape(userID)+"/activate", nil)
}

// DeactivateUser deactivates an account and revokes its refresh tokens.
func (s *Session) DeactivateUser(ctx context.Context, userID string) (*UserResponse, error) {
	return authJSON[UserResponse](ctx, s, http.MethodPost,
		APIPrefix+"/users/"+url.PathEscape(userID)+"/deactivate", nil)
}

// ChangeUserRole sets the role of an account.
func (s *Session) ChangeUserRole(ctx context.Context, userID, role string) (*UserResponse, error) {
	return authJSON[UserResponse](ctx, s, http.MethodPatch,
		APIPrefix+"/users/"+url.PathEscape(userID)+"/role", RoleRequest{Role: role})
}

// authJSON sends payload, when set, as JSON on an authenticated request and
// decodes a 200 envelope into T.
func authJSON[T any](ctx context.Context, s *Session, method, path string, payload any) (*T, error) {
	var body io.Reader
	var headers map[string]string
	if payload != nil {
		r, err := jsonBody(payload)
		if err != nil {
			return nil, err
		}
		body, headers = r, jsonHeaders
	}

	resp, err := s.doAuthRequest(ctx, method, path, body, headers)
	if err != nil {
		return nil, err
	}

	out, err := decodeData[T](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
