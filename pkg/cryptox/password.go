package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Bounds for the bcrypt cost factor (BCRYPT_SALT_ROUNDS).
const (
	MinBcryptCost     = bcrypt.MinCost
	MaxBcryptCost     = bcrypt.MaxCost
	DefaultBcryptCost = bcrypt.DefaultCost
)

var (
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
	ErrInvalidCost      = errors.New("cryptox: bcrypt cost out of range")
)

// PasswordHasher hashes passwords with bcrypt. Before hashing, the password
// is run through HMAC-SHA256 keyed with the pepper, which keeps the input
// under bcrypt's 72 byte limit and means a leaked database alone is not
// enough to mount an offline attack.
type PasswordHasher struct {
	cost   int
	pepper []byte

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher returns a hasher using the given bcrypt cost and pepper.
func NewPasswordHasher(cost int, pepper []byte) (*PasswordHasher, error) {
	if cost < MinBcryptCost || cost > MaxBcryptCost {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidCost, cost, MinBcryptCost, MaxBcryptCost)
	}
	if len(pepper) == 0 {
		return nil, errors.New("cryptox: pepper required")
	}
	return &PasswordHasher{cost: cost, pepper: pepper}, nil
}

// Cost returns the bcrypt cost new hashes are created with.
func (h *PasswordHasher) Cost() int { return h.cost }

func (h *PasswordHasher) peppered(password string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

// Hash returns a bcrypt hash of the peppered password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(h.peppered(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares a plaintext password against a hash produced by Hash.
func (h *PasswordHasher) Verify(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), h.peppered(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("cryptox: verify password: %w", err)
	}
}

// VerifyDummy burns the same time as a real Verify. Call it when the account
// does not exist so response timing does not reveal which emails are
// registered.
func (h *PasswordHasher) VerifyDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("capmanage-dummy"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, h.peppered(password))
}

// NeedsRehash reports whether hash was created with a different cost than
// the hasher is configured for.
func (h *PasswordHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost != h.cost
}

// GeneratePassword returns a random password that satisfies the account
// password policy (upper, lower, digit and special characters).
func GeneratePassword() (string, error) {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		digits  = "0123456789"
		special = "!@#$%^&*-_=+"
		length  = 16
	)
	classes := []string{lower, upper, digits, special}
	all := lower + upper + digits + special

	password := make([]byte, length)
	for i := range password {
		set := all
		if i < len(classes) {
			set = classes[i]
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = set[n.Int64()]
	}

	// Shuffle so the guaranteed classes are not always in front.
	for i := len(password) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		j := n.Int64()
		password[i], password[j] = password[j], password[i]
	}
	return string(password), nil
}
