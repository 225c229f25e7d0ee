package service

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher is the PasswordHasher used in production
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher using bcrypt.DefaultCost
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ErrWeakPassword is returned when a password fails the password policy
var ErrWeakPassword = errors.New("password does not meet the password policy")

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// ValidatePassword requires MinPasswordLength characters with at least one
// digit, one lowercase letter, one uppercase letter and one symbol.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("%w: at least %d characters required", ErrWeakPassword, MinPasswordLength)
	}

	var digit, lower, upper, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}

	switch {
	case !digit:
		return fmt.Errorf("%w: a digit is required", ErrWeakPassword)
	case !lower:
		return fmt.Errorf("%w: a lowercase letter is required", ErrWeakPassword)
	case !upper:
		return fmt.Errorf("%w: an uppercase letter is required", ErrWeakPassword)
	case !symbol:
		return fmt.Errorf("%w: a non-alphanumeric character is required", ErrWeakPassword)
	}
	return nil
}
