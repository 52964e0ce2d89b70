package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/capmanage/capmanage/pkg/mailx"
	"github.com/capmanage/capmanage/pkg/slogx"
)

// LoginPath is the frontend page linked from the faculty approval email.
const LoginPath = "/login"

// FacultyReview is a faculty request together with the account it belongs
// to.
type FacultyReview struct {
	Request domain.FacultyRequest
	User    domain.User
}

// AdminService holds the administrator operations on accounts: faculty
// review, activation and role changes. Callers check that the actor is an
// admin.
type AdminService struct {
	Store  store.Store
	Mailer mailx.Mailer
	Clock  Clock

	// FrontendBaseURL prefixes the login link in decision emails.
	FrontendBaseURL string
}

// ListFacultyRequests returns the requests in status, oldest first. An empty
// status lists pending requests.
func (s *AdminService) ListFacultyRequests(ctx context.Context, status domain.FacultyStatus) ([]FacultyReview, error) {
	if status == domain.FacultyNone {
		status = domain.FacultyPending
	}
	if status != domain.FacultyPending && !status.Reviewed() {
		return nil, fmt.Errorf("%w: unknown faculty status %q", ErrInvalidRequest, status)
	}

	reqs, err := s.Store.FacultyRequests().ListFacultyRequests(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]FacultyReview, 0, len(reqs))
	for _, r := range reqs {
		u, err := s.Store.Users().GetUserByID(ctx, r.UserID)
		if err != nil {
			return nil, fmt.Errorf("load user of faculty request %s: %w", r.ID, err)
		}
		out = append(out, FacultyReview{Request: r, User: u})
	}
	return out, nil
}

// ReviewFacultyRequest approves or rejects a faculty request. Approval
// activates the account, rejection deactivates it. A request can be
// reviewed again to reverse an earlier decision. The outcome email is a
// notification only; a delivery failure is logged.
func (s *AdminService) ReviewFacultyRequest(ctx context.Context, requestID string, status domain.FacultyStatus, adminID string) (FacultyReview, error) {
	if !status.Reviewed() {
		return FacultyReview{}, fmt.Errorf("%w: status must be approved or rejected", ErrInvalidRequest)
	}
	approved := status == domain.FacultyApproved

	var review FacultyReview
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := s.Clock.now()
		if err := tx.FacultyRequests().ReviewFacultyRequest(ctx, requestID, status, adminID, now); err != nil {
			return mapStoreErr(err)
		}
		req, err := tx.FacultyRequests().GetFacultyRequest(ctx, requestID)
		if err != nil {
			return mapStoreErr(err)
		}
		if err := tx.Users().SetFacultyStatus(ctx, req.UserID, status, approved, now); err != nil {
			return mapStoreErr(err)
		}
		if !approved {
			if _, err := tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, req.UserID, now); err != nil {
				return err
			}
		}
		u, err := tx.Users().GetUserByID(ctx, req.UserID)
		if err != nil {
			return mapStoreErr(err)
		}
		review = FacultyReview{Request: req, User: u}
		return nil
	})
	if err != nil {
		return FacultyReview{}, err
	}

	l := slogx.FromContext(ctx)
	l.Info("faculty request reviewed",
		slog.String("request_id", requestID),
		slog.String("user_id", review.User.ID),
		slog.String("status", string(status)),
		slog.String("admin_id", adminID),
	)

	msg, err := mailx.FacultyDecisionEmail(mailx.FacultyDecision{
		To:       review.User.Email,
		Name:     review.User.Name,
		Approved: approved,
		Link:     strings.TrimRight(s.FrontendBaseURL, "/") + LoginPath,
	})
	if err == nil {
		err = s.Mailer.Send(ctx, msg)
	}
	if err != nil {
		l.Error("failed to send faculty decision email",
			slog.String("user_id", review.User.ID),
			slog.Any("error", err),
		)
	}
	return review, nil
}

// ActivateUser activates an account and clears its lockout.
func (s *AdminService) ActivateUser(ctx context.Context, userID string) (domain.User, error) {
	if err := s.Store.Users().SetActive(ctx, userID, true, s.Clock.now()); err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	slogx.FromContext(ctx).Info("user activated", slog.String("user_id", userID))
	return s.user(ctx, userID)
}

// DeactivateUser deactivates an account and ends its sessions. Admins cannot
// deactivate themselves.
func (s *AdminService) DeactivateUser(ctx context.Context, actorID, userID string) (domain.User, error) {
	if actorID == userID {
		return domain.User{}, fmt.Errorf("%w: cannot deactivate your own account", ErrInvalidRequest)
	}
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := s.Clock.now()
		if err := tx.Users().SetActive(ctx, userID, false, now); err != nil {
			return mapStoreErr(err)
		}
		_, err := tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID, now)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	slogx.FromContext(ctx).Info("user deactivated", slog.String("user_id", userID), slog.String("admin_id", actorID))
	return s.user(ctx, userID)
}

// ChangeUserRole sets the role of an account. Admins cannot change their own
// role.
func (s *AdminService) ChangeUserRole(ctx context.Context, actorID, userID string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, role)
	}
	if actorID == userID {
		return domain.User{}, fmt.Errorf("%w: cannot change your own role", ErrInvalidRequest)
	}
	if err := s.Store.Users().SetRole(ctx, userID, role, s.Clock.now()); err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	slogx.FromContext(ctx).Info("user role changed",
		slog.String("user_id", userID),
		slog.String("role", string(role)),
		slog.String("admin_id", actorID),
	)
	return s.user(ctx, userID)
}

func (s *AdminService) user(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return u, nil
}
