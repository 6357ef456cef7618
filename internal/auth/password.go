package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"matchTracker/internal/apperr"
)

// newDummyHash returns a hash at cost to compare against when the username is
// unknown, so both login failure paths do the same amount of work.
func newDummyHash(cost int) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("matchtracker-dummy-password"), cost)
	if err != nil {
		h, _ = bcrypt.GenerateFromPassword([]byte("matchtracker-dummy-password"), bcrypt.DefaultCost)
	}
	return h
}

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
