package http

import (
	"net/http"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/pkg/authsdk"
	"github.com/capmanage/capmanage/pkg/httpx"
)

// AdminHandler serves the admin-only account endpoints. The router puts
// them behind AuthnMiddleware and RequireRole, so a principal is always
// present.
type AdminHandler struct {
	AdminService *service.AdminService
}

// HandleListFacultyRequests godoc
//
//	@Summary		List faculty requests
//	@Description	Lists faculty requests in the given status, oldest first. Defaults to pending.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			status	query		string												false	"pending, approved or rejected"
//	@Success		200		{object}	authsdk.Envelope[authsdk.FacultyRequestListResponse]	"requests"
//	@Failure		400		{object}	authsdk.ErrorEnvelope									"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorEnvelope									"unauthenticated"
//	@Failure		403		{object}	authsdk.ErrorEnvelope									"forbidden"
//	@Router			/api/v1/auth/faculty/requests [get].
func (h *AdminHandler) HandleListFacultyRequests(w http.ResponseWriter, r *http.Request) {
	status := domain.FacultyStatus(r.URL.Query().Get("status"))

	reviews, err := h.AdminService.ListFacultyRequests(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := authsdk.FacultyRequestListResponse{Requests: make([]authsdk.FacultyRequestResponse, 0, len(reviews))}
	for _, rv := range reviews {
		out.Requests = append(out.Requests, toFacultyRequestResponse(rv))
	}
	httpx.WriteData(w, http.StatusOK, out)
}

// HandleReviewFacultyRequest godoc
//
//	@Summary		Approve or reject a faculty request
//	@Description	Approval activates the account, rejection deactivates it and revokes its refresh tokens.
//	@Description	The applicant is notified by email.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string											true	"faculty request id"
//	@Param			request	body		authsdk.ReviewRequest							true	"approved or rejected"
//	@Success		200		{object}	authsdk.Envelope[authsdk.FacultyRequestResponse]	"reviewed request"
//	@Failure		400		{object}	authsdk.ErrorEnvelope							"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorEnvelope							"unauthenticated"
//	@Failure		403		{object}	authsdk.ErrorEnvelope							"forbidden"
//	@Failure		404		{object}	authsdk.ErrorEnvelope							"not_found"
//	@Router			/api/v1/auth/faculty/requests/{id} [patch].
func (h *AdminHandler) HandleReviewFacultyRequest(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, _ := httpx.PrincipalFromContext(r.Context())

	review, err := h.AdminService.ReviewFacultyRequest(r.Context(), r.PathValue("id"), domain.FacultyStatus(req.Status), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toFacultyRequestResponse(review))
}

// HandleActivateUser godoc
//
//	@Summary		Activate an account
//	@Description	Activates the account and clears any login lockout.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string									true	"user id"
//	@Success		200	{object}	authsdk.Envelope[authsdk.UserResponse]	"account"
//	@Failure		401	{object}	authsdk.ErrorEnvelope					"unauthenticated"
//	@Failure		403	{object}	authsdk.ErrorEnvelope					"forbidden"
//	@Failure		404	{object}	authsdk.ErrorEnvelope					"not_found"
//	@Router			/api/v1/auth/users/{id}/activate [post].
func (h *AdminHandler) HandleActivateUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.AdminService.ActivateUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toUserResponse(u))
}

// HandleDeactivateUser godoc
//
//	@Summary		Deactivate an account
//	@Description	Deactivates the account and revokes its refresh tokens. Admins cannot deactivate themselves.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string									true	"user id"
//	@Success		200	{object}	authsdk.Envelope[authsdk.UserResponse]	"account"
//	@Failure		400	{object}	authsdk.ErrorEnvelope					"invalid_request"
//	@Failure		401	{object}	authsdk.ErrorEnvelope					"unauthenticated"
//	@Failure		403	{object}	authsdk.ErrorEnvelope					"forbidden"
//	@Failure		404	{object}	authsdk.ErrorEnvelope					"not_found"
//	@Router			/api/v1/auth/users/{id}/deactivate [post].
func (h *AdminHandler) HandleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	u, err := h.AdminService.DeactivateUser(r.Context(), p.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toUserResponse(u))
}

// HandleChangeUserRole godoc
//
//	@Summary		Change the role of an account
//	@Description	Admins cannot change their own role.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string									true	"user id"
//	@Param			request	body		authsdk.RoleRequest						true	"new role"
//	@Success		200		{object}	authsdk.Envelope[authsdk.UserResponse]	"account"
//	@Failure		400		{object}	authsdk.ErrorEnvelope					"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorEnvelope					"unauthenticated"
//	@Failure		403		{object}	authsdk.ErrorEnvelope					"forbidden"
//	@Failure		404		{object}	authsdk.ErrorEnvelope					"not_found"
//	@Router			/api/v1/auth/users/{id}/role [patch].
func (h *AdminHandler) HandleChangeUserRole(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RoleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, _ := httpx.PrincipalFromContext(r.Context())

	u, err := h.AdminService.ChangeUserRole(r.Context(), p.UserID, r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toUserResponse(u))
}
