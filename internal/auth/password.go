package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPIN hashes a PIN with the configured cost.
func HashPIN(pin string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IsHashedPIN reports whether a stored PIN is a bcrypt hash.
func IsHashedPIN(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// MatchPIN compares an entered PIN against a stored one. Plaintext entries
// compare by equality; bcrypt entries go through bcrypt.
func MatchPIN(stored, entered string) bool {
	if IsHashedPIN(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(entered)) == nil
	}
	return stored == entered
}
