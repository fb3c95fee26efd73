package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// hashCost trades login latency for brute force resistance. 14 keeps a
// single comparison in the tens of milliseconds on current hardware.
const hashCost = 14

// HashPassword hashes the cleartext password with bcrypt. Empty passwords
// never reach the hasher.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(h), err
}

// ComparePasswordAndHash checks the cleartext password against the stored
// bcrypt hash, mapping a mismatch to ErrMismatchedHashAndPassword.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomPasswordHash returns the hash of a random value. Callers compare a
// presented password against it when no stored hash exists, so a failed
// lookup costs the same as a failed comparison.
func RandomPasswordHash() string {
	for {
		h, err := HashPassword(uuid.NewString())
		if err == nil {
			return h
		}
	}
}
