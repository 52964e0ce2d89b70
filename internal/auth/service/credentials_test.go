package service

import (
	"context"
	"testing"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestCredentialService_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	u, err := h.credentials.CreateUser(ctx, NewUser{Email: "Alice@Example.com", PasswordHash: "$2a$04$x"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, u.Role, "role defaults to student")

	got, err := h.credentials.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "alice@example.com", got.Email)
	require.False(t, got.IsEmailVerified)
}

func TestCredentialService_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.credentials.CreateUser(ctx, NewUser{Email: "bob@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	for _, email := range []string{"bob@example.com", "BOB@example.com", " Bob@Example.COM "} {
		_, err := h.credentials.CreateUser(ctx, NewUser{Email: email, PasswordHash: "h"})
		require.ErrorIs(t, err, ErrDuplicateEmail, email)
	}
}

func TestCredentialService_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.credentials.CreateUser(ctx, NewUser{Email: "", PasswordHash: "h"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = h.credentials.CreateUser(ctx, NewUser{Email: "x@example.com", PasswordHash: "h", Role: "owner"})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCredentialService_NotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.credentials.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, h.credentials.MarkEmailVerified(context.Background(), "missing"), ErrNotFound)
}

func TestCredentialService_MarkEmailVerifiedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.createUser(t, "carol@example.com", unverified)

	require.NoError(t, h.credentials.MarkEmailVerified(ctx, u.ID))
	require.NoError(t, h.credentials.MarkEmailVerified(ctx, u.ID))

	got, err := h.credentials.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsEmailVerified)
}
