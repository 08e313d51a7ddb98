package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"

	generatedLength  = 12
	generatedLetters = 6
	generatedDigits  = 2
)

// PasswordAuthenticator checks the admin password against a bcrypt hash.
// The plain password is never kept in memory after construction.
type PasswordAuthenticator struct {
	hash []byte
}

// NewPasswordAuthenticator hashes password and returns an authenticator for it.
func NewPasswordAuthenticator(password string) (*PasswordAuthenticator, error) {
	if err := ValidateCredential(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &PasswordAuthenticator{hash: hash}, nil
}

// ValidateCredential checks if the password meets minimum requirements.
func ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Authenticate verifies the password and returns the admin identity if it matches.
func (a *PasswordAuthenticator) Authenticate(_ context.Context, credential string) (Identity, error) {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(credential)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{Subject: AdminSubject, Role: RoleAdmin}, nil
}

// GeneratePassword returns a random 12 character password with at least six letters and
// two digits.
func GeneratePassword() (string, error) {
	password := make([]byte, 0, generatedLength)

	pick := func(alphabet string, n int) error {
		for i := 0; i < n; i++ {
			idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
			if err != nil {
				return fmt.Errorf("failed to generate password: %w", err)
			}
			password = append(password, alphabet[idx.Int64()])
		}
		return nil
	}

	if err := pick(letters, generatedLetters); err != nil {
		return "", err
	}
	if err := pick(digits, generatedDigits); err != nil {
		return "", err
	}
	if err := pick(letters+digits, generatedLength-generatedLetters-generatedDigits); err != nil {
		return "", err
	}

	// Fisher-Yates so the digits are not always in the middle
	for i := len(password) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password[i], password[j.Int64()] = password[j.Int64()], password[i]
	}

	return string(password), nil
}
