package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := &BootstrapService{Credentials: h.credentials, Hasher: h.hasher}

	created, err := svc.EnsureAdmin(ctx, domain.BootstrapAdmin{})
	require.NoError(t, err)
	require.False(t, created, "no email configured")

	admin := domain.BootstrapAdmin{Email: "Admin@CapManage.io", Name: "Root", Password: testPassword}
	created, err = svc.EnsureAdmin(ctx, admin)
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.EnsureAdmin(ctx, admin)
	require.NoError(t, err)
	require.False(t, created)

	u, err := h.credentials.FindByEmail(ctx, "admin@capmanage.io")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)
	require.True(t, u.IsEmailVerified)
	require.True(t, u.IsActive)

	h.login(t, "admin@capmanage.io")
}

func TestEnsureAdmin_GeneratesPassword(t *testing.T) {
	h := newHarness(t)
	svc := &BootstrapService{Credentials: h.credentials, Hasher: h.hasher}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := slogx.WithContext(context.Background(), logger)

	created, err := svc.EnsureAdmin(ctx, domain.BootstrapAdmin{Email: "root@capmanage.io"})
	require.NoError(t, err)
	require.True(t, created)

	var entry struct {
		Password string `json:"generated_password"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.NotEmpty(t, entry.Password)

	_, err = h.tokens.Login(context.Background(), "root@capmanage.io", entry.Password, "")
	require.NoError(t, err)
}
