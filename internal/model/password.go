package model

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordCost is the bcrypt work factor for every stored password.
	PasswordCost = 10

	// maxPasswordBytes is the longest input bcrypt consumes; longer inputs are truncated.
	maxPasswordBytes = 72
)

// MalformedCredentialError means a stored hash is not a usable bcrypt hash.
// It points at corrupt data, not at a wrong password.
type MalformedCredentialError struct {
	Err error
}

func (e *MalformedCredentialError) Error() string {
	return fmt.Sprintf("malformed stored credential: %v", e.Err)
}

func (e *MalformedCredentialError) Unwrap() error { return e.Err }

// HashPassword returns the bcrypt hash of password at PasswordCost.
// The result embeds its own salt and cost.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", newValidationError("Password")
	}

	hashed, err := bcrypt.GenerateFromPassword(clampPassword(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches the stored hash.
// A mismatch is (false, nil); only a malformed hash is an error.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), clampPassword(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, &MalformedCredentialError{Err: err}
	}
}

func clampPassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
