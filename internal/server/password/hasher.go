// Package password hashes and verifies user passwords.
//
// Two algorithms are supported: bcrypt (default, cost 12) and argon2id in
// PHC string form. Compare understands both encodings regardless of which
// Hasher produced the hash, so switching algorithms does not lock out
// existing users.
package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMismatch is returned when the password does not match the hash.
	ErrMismatch = errors.New("password mismatch")

	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash (> 72 bytes).
	ErrPasswordTooLong = errors.New("password too long")
)

// Hasher produces and checks salted one-way password hashes.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(encodedHash, password string) error
}

// New returns a Hasher for algorithm ("bcrypt" or "argon2id").
func New(algorithm string, bcryptCost int) (Hasher, error) {
	switch algorithm {
	case "", "bcrypt":
		return NewBcrypt(bcryptCost)
	case "argon2id":
		return NewArgon2id(DefaultArgon2Config())
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", algorithm)
	}
}

// compare dispatches on the hash encoding.
func compare(encodedHash, password string) error {
	if strings.HasPrefix(encodedHash, "$"+argon2AlgorithmID+"$") {
		return compareArgon2id(encodedHash, password)
	}

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("bcrypt compare: %w", err)
	}
}
