package service

import (
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the policy accepts.
const MinPasswordLength = 8

// PasswordPolicyError lists every rule a password broke. It matches
// ErrWeakPassword with errors.Is.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "weak_password: " + strings.Join(e.Violations, "; ")
}

func (e *PasswordPolicyError) Is(target error) bool { return target == ErrWeakPassword }

// ValidatePassword checks password against the account password policy.
func ValidatePassword(password string) error {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}

	var v []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		v = append(v, "Password must be at least 8 characters")
	}
	if !lower {
		v = append(v, "Password must contain a lowercase letter")
	}
	if !upper {
		v = append(v, "Password must contain an uppercase letter")
	}
	if !digit {
		v = append(v, "Password must contain a number")
	}
	if !special {
		v = append(v, "Password must contain a special character")
	}

	if len(v) > 0 {
		return &PasswordPolicyError{Violations: v}
	}
	return nil
}
