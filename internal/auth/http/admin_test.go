package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// adminSession creates a verified admin and returns its access token.
func (s *testServer) adminSession(t *testing.T) (string, string) {
	t.Helper()
	hash, err := s.hasher.Hash(testPassword)
	require.NoError(t, err)
	u, err := s.router.CredentialService.CreateUser(context.Background(), service.NewUser{
		Email: "admin@example.com", Name: "Admin", PasswordHash: hash,
		Role: domain.RoleAdmin, Active: true, EmailVerified: true,
	})
	require.NoError(t, err)

	sess, resp := s.login(t, "admin@example.com", testPassword)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	return u.ID, "Bearer " + sess.AccessToken
}

func TestFacultyRegistrationReview(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	_, admin := s.adminSession(t)

	resp := s.do(t, http.MethodPost, "/api/v1/auth/register/faculty", authsdk.RegisterFacultyRequest{
		Name: "Grace Hopper", Email: "grace@example.com", Password: testPassword,
		Department: "Computer Science", Designation: "Professor",
	})
	require.Equal(t, http.StatusAccepted, resp.code, string(resp.body))
	var created authsdk.FacultyRequestResponse
	resp.data(t, &created)
	require.Equal(t, "pending", created.Status)
	require.Equal(t, "faculty", created.User.Role)
	require.Equal(t, "pending", created.User.FacultyStatus)
	require.False(t, created.User.IsActive)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/verify-email", authsdk.TokenRequest{Token: s.mail.lastToken(t)})
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))

	_, resp = s.login(t, "grace@example.com", testPassword)
	require.Equal(t, http.StatusForbidden, resp.code)
	require.Equal(t, authsdk.ReasonFacultyPending, resp.errBody(t).Reason)

	resp = s.do(t, http.MethodGet, "/api/v1/auth/faculty/requests", nil, "Authorization", admin)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	var list authsdk.FacultyRequestListResponse
	resp.data(t, &list)
	require.Len(t, list.Requests, 1)
	require.Equal(t, created.ID, list.Requests[0].ID)

	resp = s.do(t, http.MethodPatch, "/api/v1/auth/faculty/requests/"+created.ID,
		authsdk.ReviewRequest{Status: "approved"}, "Authorization", admin)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	var reviewed authsdk.FacultyRequestResponse
	resp.data(t, &reviewed)
	require.Equal(t, "approved", reviewed.Status)
	require.NotNil(t, reviewed.ReviewedAt)
	require.True(t, reviewed.User.IsActive)

	_, resp = s.login(t, "grace@example.com", testPassword)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))

	resp = s.do(t, http.MethodPatch, "/api/v1/auth/faculty/requests/"+created.ID,
		authsdk.ReviewRequest{Status: "rejected"}, "Authorization", admin)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))

	_, resp = s.login(t, "grace@example.com", testPassword)
	require.Equal(t, http.StatusForbidden, resp.code)
	require.Equal(t, authsdk.ReasonFacultyRejected, resp.errBody(t).Reason)
}

func TestFacultyReviewErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	_, admin := s.adminSession(t)

	resp := s.do(t, http.MethodPost, "/api/v1/auth/register/faculty", authsdk.RegisterFacultyRequest{
		Name: "Grace", Email: "grace@example.com", Password: testPassword, Designation: "Professor",
	})
	require.Equal(t, http.StatusBadRequest, resp.code)
	require.Equal(t, authsdk.ReasonInvalidRequest, resp.errBody(t).Reason)

	resp = s.do(t, http.MethodGet, "/api/v1/auth/faculty/requests?status=archived", nil, "Authorization", admin)
	require.Equal(t, http.StatusBadRequest, resp.code)

	resp = s.do(t, http.MethodPatch, "/api/v1/auth/faculty/requests/missing",
		authsdk.ReviewRequest{Status: "approved"}, "Authorization", admin)
	require.Equal(t, http.StatusNotFound, resp.code)
	require.Equal(t, authsdk.ReasonNotFound, resp.errBody(t).Reason)

	resp = s.do(t, http.MethodPatch, "/api/v1/auth/faculty/requests/missing",
		authsdk.ReviewRequest{Status: "pending"}, "Authorization", admin)
	require.Equal(t, http.StatusBadRequest, resp.code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.registerVerified(t, "student@example.com")
	sess, _ := s.login(t, "student@example.com", testPassword)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/auth/faculty/requests"},
		{http.MethodPatch, "/api/v1/auth/faculty/requests/x"},
		{http.MethodPost, "/api/v1/auth/users/x/activate"},
		{http.MethodPost, "/api/v1/auth/users/x/deactivate"},
		{http.MethodPatch, "/api/v1/auth/users/x/role"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			resp := s.do(t, rt.method, rt.path, nil)
			require.Equal(t, http.StatusUnauthorized, resp.code)

			resp = s.do(t, rt.method, rt.path, nil, "Authorization", "Bearer "+sess.AccessToken)
			require.Equal(t, http.StatusForbidden, resp.code)
			require.Equal(t, authsdk.ReasonForbidden, resp.errBody(t).Reason)
		})
	}
}

func TestAdminAccountControl(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	adminID, admin := s.adminSession(t)
	s.registerVerified(t, "student@example.com")
	sess, _ := s.login(t, "student@example.com", testPassword)
	userID := sess.User.ID

	resp := s.do(t, http.MethodPost, "/api/v1/auth/users/"+userID+"/deactivate", nil, "Authorization", admin)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	var u authsdk.UserResponse
	resp.data(t, &u)
	require.False(t, u.IsActive)

	// Deactivation ends the session.
	resp = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "Authorization", "Bearer "+sess.AccessToken)
	require.Equal(t, http.StatusUnauthorized, resp.code)
	resp = s.do(t, http.MethodPost, "/api/v1/auth/refresh", authsdk.RefreshRequest{RefreshToken: sess.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.code)
	_, resp = s.login(t, "student@example.com", testPassword)
	require.Equal(t, authsdk.ReasonAccountInactive, resp.errBody(t).Reason)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/users/"+userID+"/activate", nil, "Authorization", admin)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	resp.data(t, &u)
	require.True(t, u.IsActive)

	resp = s.do(t, http.MethodPatch, "/api/v1/auth/users/"+userID+"/role",
		authsdk.RoleRequest{Role: "faculty"}, "Authorization", admin)
	require.Equal(t, http.StatusOK, resp.code, string(resp.body))
	resp.data(t, &u)
	require.Equal(t, "faculty", u.Role)

	resp = s.do(t, http.MethodPatch, "/api/v1/auth/users/"+userID+"/role",
		authsdk.RoleRequest{Role: "root"}, "Authorization", admin)
	require.Equal(t, http.StatusBadRequest, resp.code)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/users/"+adminID+"/deactivate", nil, "Authorization", admin)
	require.Equal(t, http.StatusBadRequest, resp.code)
	require.Equal(t, authsdk.ReasonInvalidRequest, resp.errBody(t).Reason)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/users/missing/activate", nil, "Authorization", admin)
	require.Equal(t, http.StatusNotFound, resp.code)
}
