package security

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/angelmondragon/juniorgolf-backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// MaxPasswordLength is bcrypt's input limit.
	MaxPasswordLength = 72
	PinLength         = 4
)

// ErrInvalidHash signals a malformed bcrypt hash string.
var ErrInvalidHash = fmt.Errorf("invalid bcrypt hash")

// HashPassword returns a bcrypt hash for the provided password.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return hashSecret(password, cfg)
}

// VerifyPassword returns true when the password matches the encoded hash.
func VerifyPassword(password, encoded string) (bool, error) {
	return compareSecret(password, encoded)
}

// HashPin returns a bcrypt hash for a 4-digit PIN.
func HashPin(pin string, cfg config.PasswordConfig) (string, error) {
	if !IsValidPin(pin) {
		return "", fmt.Errorf("pin must be exactly %d digits", PinLength)
	}
	return hashSecret(pin, cfg)
}

// VerifyPin returns true when the PIN matches the encoded hash.
func VerifyPin(pin, encoded string) (bool, error) {
	return compareSecret(pin, encoded)
}

// IsValidPin reports whether pin is exactly four ASCII digits.
func IsValidPin(pin string) bool {
	if len(pin) != PinLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CheckPasswordStrength enforces the account password policy and returns a
// readable reason when the password is rejected.
func CheckPasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return fmt.Errorf("password must contain an uppercase letter, a lowercase letter, and a number")
	}
	return nil
}

func hashSecret(secret string, cfg config.PasswordConfig) (string, error) {
	cost := clampInt(cfg.BcryptCost, config.MinBcryptCost, config.MaxBcryptCost)
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

func compareSecret(secret, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
