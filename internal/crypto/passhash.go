// Package crypto implements server-side password hashing and session token generation.
package crypto

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor. The salt and cost travel inside the hash.
const PasswordCost = 12

// MaxPasswordLen is the longest password bcrypt accepts, in bytes.
const MaxPasswordLen = 72

// sessionTokenLen is the number of random bytes behind a session token.
const sessionTokenLen = 32

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, PasswordCost)
}

// VerifyPassword re-hashes password with the salt and cost stored in expected
// and reports whether they match.
func VerifyPassword(password, expected []byte) bool {
	return bcrypt.CompareHashAndPassword(expected, password) == nil
}

// NewSessionToken returns a fresh opaque session token (hex, 64 chars).
func NewSessionToken() (string, error) {
	b, err := RandBytes(sessionTokenLen)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
