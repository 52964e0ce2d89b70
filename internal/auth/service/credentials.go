package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/capmanage/capmanage/pkg/idx"
)

// NewUser is the input of CredentialService.CreateUser. The password must
// already be hashed.
type NewUser struct {
	Email         string
	Name          string
	PasswordHash  string
	Role          domain.Role
	Active        bool
	EmailVerified bool
	FacultyStatus domain.FacultyStatus
}

// CredentialService owns user identity records.
type CredentialService struct {
	Store store.Store
	Clock Clock
}

// CreateUser stores a new user. Emails are unique ignoring case; a second
// user with the same email fails with ErrDuplicateEmail.
func (s *CredentialService) CreateUser(ctx context.Context, in NewUser) (domain.User, error) {
	return createUser(ctx, s.Store.Users(), in, s.Clock.now)
}

func createUser(ctx context.Context, users store.Users, in NewUser, now func() time.Time) (domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.PasswordHash == "" {
		return domain.User{}, fmt.Errorf("%w: email and password hash are required", ErrInvalidRequest)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if !role.Valid() {
		return domain.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, role)
	}

	at := now()
	u := domain.User{
		ID:              idx.NewAt(at).String(),
		Email:           email,
		Name:            strings.TrimSpace(in.Name),
		PasswordHash:    in.PasswordHash,
		Role:            role,
		IsActive:        in.Active,
		IsEmailVerified: in.EmailVerified,
		FacultyStatus:   in.FacultyStatus,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// FindByEmail looks a user up ignoring case.
func (s *CredentialService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return u, nil
}

// FindByID fetches a user by id.
func (s *CredentialService) FindByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return u, nil
}

// MarkEmailVerified flips is_email_verified to true. Calling it again is a
// no-op.
func (s *CredentialService) MarkEmailVerified(ctx context.Context, userID string) error {
	_, err := s.Store.Users().MarkEmailVerified(ctx, userID, false, s.Clock.now())
	return mapStoreErr(err)
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
