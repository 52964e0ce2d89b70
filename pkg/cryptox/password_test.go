package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(MinBcryptCost, []byte("test-pepper"))
	require.NoError(t, err)
	return h
}

func TestHashAndVerifyPassword(t *testing.T) {
	h := newTestHasher(t)

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "Password1!"},
		{"long password", strings.Repeat("a", 200)},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$2a$04$"), "bcrypt hash with configured cost")

			require.NoError(t, h.Verify(tt.password, hash))
			require.ErrorIs(t, h.Verify(tt.password+"x", hash), ErrPasswordMismatch)
		})
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h := newTestHasher(t)

	a, err := h.Hash("Password1!")
	require.NoError(t, err)
	b, err := h.Hash("Password1!")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifyPassword_LongPasswordsAreNotTruncated(t *testing.T) {
	h := newTestHasher(t)
	base := strings.Repeat("x", 80)

	hash, err := h.Hash(base + "1")
	require.NoError(t, err)
	require.ErrorIs(t, h.Verify(base+"2", hash), ErrPasswordMismatch)
}

func TestVerifyPassword_WrongPepper(t *testing.T) {
	h := newTestHasher(t)
	hash, err := h.Hash("Password1!")
	require.NoError(t, err)

	other, err := NewPasswordHasher(MinBcryptCost, []byte("another-pepper"))
	require.NoError(t, err)
	require.ErrorIs(t, other.Verify("Password1!", hash), ErrPasswordMismatch)
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	h := newTestHasher(t)
	err := h.Verify("Password1!", "not-a-hash")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestNewPasswordHasher_Validation(t *testing.T) {
	_, err := NewPasswordHasher(3, []byte("p"))
	require.ErrorIs(t, err, ErrInvalidCost)

	_, err = NewPasswordHasher(32, []byte("p"))
	require.ErrorIs(t, err, ErrInvalidCost)

	_, err = NewPasswordHasher(bcrypt.DefaultCost, nil)
	require.Error(t, err)
}

func TestNeedsRehash(t *testing.T) {
	h := newTestHasher(t)
	hash, err := h.Hash("Password1!")
	require.NoError(t, err)
	require.False(t, h.NeedsRehash(hash))

	stronger, err := NewPasswordHasher(MinBcryptCost+1, []byte("test-pepper"))
	require.NoError(t, err)
	require.True(t, stronger.NeedsRehash(hash))
	require.True(t, stronger.NeedsRehash("garbage"))
}

func TestGeneratePassword(t *testing.T) {
	for range 20 {
		pw, err := GeneratePassword()
		require.NoError(t, err)
		require.Len(t, pw, 16)

		var lower, upper, digit, special bool
		for _, r := range pw {
			switch {
			case unicode.IsLower(r):
				lower = true
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			default:
				special = true
			}
		}
		require.True(t, lower && upper && digit && special, "password %q misses a class", pw)
	}
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Len(t, first, 43)

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "pepper must be stable across loads")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadOrCreatePepper_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0600))

	_, err := LoadOrCreatePepper(path)
	require.Error(t, err)
}
