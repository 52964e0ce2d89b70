package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/capmanage/capmanage/pkg/idx"
	"github.com/capmanage/capmanage/pkg/jwtx"
	"github.com/capmanage/capmanage/pkg/mailx"
	"github.com/capmanage/capmanage/pkg/slogx"
)

// Frontend routes the emailed links point at.
const (
	VerifyEmailPath   = "/verify-email"
	ResetPasswordPath = "/reset-password"
)

// RegisterInput is a self-service student registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AccountService runs the self-service flows: registration, email
// verification and password reset.
type AccountService struct {
	Store        store.Store
	Credentials  *CredentialService
	Verification *VerificationService
	Hasher       PasswordHasher
	Mailer       mailx.Mailer
	Clock        Clock

	// FrontendBaseURL prefixes the links in outgoing emails.
	FrontendBaseURL string

	// RequireMail makes a failed email delivery fail the request. Without it
	// the failure is logged and the request succeeds.
	RequireMail bool
}

// RegisterFacultyInput is a faculty self-registration. The account stays
// inactive until an administrator approves the request.
type RegisterFacultyInput struct {
	Name        string
	Email       string
	Password    string
	Department  string
	Designation string
	Expertise   string
}

// Register creates a student account and emails a verification link. The
// account can log in once the email is verified.
//
// The user is created and the email sent in one transaction. When delivery
// is required and fails, the account is not kept and registering again
// works.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	name, email, hash, err := s.prepareAccount(in.Name, in.Email, in.Password)
	if err != nil {
		return domain.User{}, err
	}

	var u domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err = createUser(ctx, tx.Users(), NewUser{
			Email:        email,
			Name:         name,
			PasswordHash: hash,
			Role:         domain.RoleStudent,
			Active:       true,
		}, s.Clock.now)
		if err != nil {
			return err
		}
		return s.sendVerification(ctx, u)
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// RegisterFaculty creates an inactive faculty account together with its
// pending review request, and emails a verification link. Login is refused
// until an administrator approves the request.
func (s *AccountService) RegisterFaculty(ctx context.Context, in RegisterFacultyInput) (FacultyReview, error) {
	department := strings.TrimSpace(in.Department)
	designation := strings.TrimSpace(in.Designation)
	if department == "" || designation == "" {
		return FacultyReview{}, fmt.Errorf("%w: department and designation are required", ErrInvalidRequest)
	}
	name, email, hash, err := s.prepareAccount(in.Name, in.Email, in.Password)
	if err != nil {
		return FacultyReview{}, err
	}

	var review FacultyReview
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := createUser(ctx, tx.Users(), NewUser{
			Email:         email,
			Name:          name,
			PasswordHash:  hash,
			Role:          domain.RoleFaculty,
			FacultyStatus: domain.FacultyPending,
		}, s.Clock.now)
		if err != nil {
			return err
		}

		now := s.Clock.now()
		req := domain.FacultyRequest{
			ID:          idx.NewAt(now).String(),
			UserID:      u.ID,
			Department:  department,
			Designation: designation,
			Expertise:   strings.TrimSpace(in.Expertise),
			Status:      domain.FacultyPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.FacultyRequests().CreateFacultyRequest(ctx, req); err != nil {
			return fmt.Errorf("create faculty request: %w", err)
		}
		review = FacultyReview{Request: req, User: u}
		return s.sendVerification(ctx, u)
	})
	if err != nil {
		return FacultyReview{}, err
	}

	slogx.FromContext(ctx).Info("faculty registered",
		slog.String("user_id", review.User.ID),
		slog.String("request_id", review.Request.ID),
	)
	return review, nil
}

// prepareAccount validates the common registration fields and hashes the
// password.
func (s *AccountService) prepareAccount(rawName, rawEmail, password string) (name, email, hash string, err error) {
	name = strings.TrimSpace(rawName)
	if name == "" {
		return "", "", "", fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if email, err = parseEmail(rawEmail); err != nil {
		return "", "", "", err
	}
	if err = ValidatePassword(password); err != nil {
		return "", "", "", err
	}
	if hash, err = s.Hasher.Hash(password); err != nil {
		return "", "", "", err
	}
	return name, email, hash, nil
}

// VerifyEmail redeems an email-verification token.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (domain.User, error) {
	return s.Verification.Redeem(ctx, token, jwtx.KindEmailVerification, nil)
}

// ResendVerification emails a fresh verification link. Unknown and already
// verified emails succeed silently.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	u, err := s.Credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if u.IsEmailVerified {
		return nil
	}
	return s.sendVerification(ctx, u)
}

// RequestPasswordReset emails a reset link. Unknown emails succeed silently
// so the endpoint cannot be used to probe for accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	tok, err := s.Verification.IssuePasswordResetToken(u)
	if err != nil {
		return err
	}
	msg, err := mailx.PasswordResetEmail(mailx.LinkEmail{
		To:      u.Email,
		Name:    u.Name,
		Link:    s.link(ResetPasswordPath, tok.Value),
		Expires: s.Verification.Tokens.TTL(jwtx.KindPasswordReset),
	})
	if err != nil {
		return err
	}
	return s.deliver(ctx, u, msg)
}

// ResetPassword redeems a password-reset token and sets a new password. The
// lockout is cleared and every refresh token of the user is revoked.
func (s *AccountService) ResetPassword(ctx context.Context, token, password string) error {
	// Checked first so a weak password does not burn the token.
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return err
	}

	u, err := s.Verification.Redeem(ctx, token, jwtx.KindPasswordReset,
		func(ctx context.Context, tx store.Tx, u domain.User) error {
			now := s.Clock.now()
			if err := tx.Users().UpdatePasswordHash(ctx, u.ID, hash, now); err != nil {
				return mapStoreErr(err)
			}
			_, err := tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, u.ID, now)
			return err
		})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", u.ID))
	return nil
}

func (s *AccountService) sendVerification(ctx context.Context, u domain.User) error {
	tok, err := s.Verification.IssueEmailVerificationToken(u)
	if err != nil {
		return err
	}
	msg, err := mailx.VerificationEmail(mailx.LinkEmail{
		To:      u.Email,
		Name:    u.Name,
		Link:    s.link(VerifyEmailPath, tok.Value),
		Expires: s.Verification.Tokens.TTL(jwtx.KindEmailVerification),
	})
	if err != nil {
		return err
	}
	return s.deliver(ctx, u, msg)
}

func (s *AccountService) deliver(ctx context.Context, u domain.User, msg mailx.Message) error {
	if err := s.Mailer.Send(ctx, msg); err != nil {
		slogx.FromContext(ctx).Error("failed to send email",
			slog.String("user_id", u.ID),
			slog.String("subject", msg.Subject),
			slog.Any("error", err),
		)
		if s.RequireMail {
			return fmt.Errorf("%w: %w", ErrMailDelivery, err)
		}
	}
	return nil
}

func (s *AccountService) link(path, token string) string {
	return strings.TrimRight(s.FrontendBaseURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func parseEmail(raw string) (string, error) {
	email := domain.NormalizeEmail(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidRequest)
	}
	return email, nil
}
