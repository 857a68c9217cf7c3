package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used for all stored password hashes.
const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. The output differs
// on every call (random salt) but verifies deterministically.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored hash.
// A nil or empty hash (federated-only account) and a malformed hash both
// fail closed: credential login is rejected, never default-permitted.
func VerifyPassword(hash *string, password string) bool {
	if hash == nil || *hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) == nil
}
