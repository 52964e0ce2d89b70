package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/pkg/cryptox"
	"github.com/capmanage/capmanage/pkg/slogx"
)

var ErrBootstrapFailedToCreateAdmin = errors.New("failed to create admin user")

// BootstrapService makes sure the configured administrator exists.
type BootstrapService struct {
	Credentials *CredentialService
	Hasher      PasswordHasher
}

// EnsureAdmin creates the admin account when no user with its email exists
// yet. It reports whether an account was created. An empty password is
// replaced by a generated one that is logged once.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, admin domain.BootstrapAdmin) (bool, error) {
	l := slogx.FromContext(ctx)

	if admin.Email == "" {
		return false, nil
	}

	// 1. Nothing to do when the account already exists
	_, err := s.Credentials.FindByEmail(ctx, admin.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	// 2. Pick the password
	password := admin.Password
	generated := password == ""
	if generated {
		if password, err = cryptox.GeneratePassword(); err != nil {
			return false, err
		}
	}

	// 3. Hash and create
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return false, ErrBootstrapFailedToCreateAdmin
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	u, err := s.Credentials.CreateUser(ctx, NewUser{
		Email:         admin.Email,
		Name:          name,
		PasswordHash:  hash,
		Role:          domain.RoleAdmin,
		Active:        true,
		EmailVerified: true,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Another instance won the race.
			return false, nil
		}
		l.Error("failed to create admin user", slog.Any("error", err))
		return false, ErrBootstrapFailedToCreateAdmin
	}

	attrs := []any{slog.String("admin_user_id", u.ID), slog.String("email", u.Email)}
	if generated {
		attrs = append(attrs, slog.String("generated_password", password))
	}
	l.Info("admin user created", attrs...)
	return true, nil
}
