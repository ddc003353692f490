package auth

import (
	"crypto/subtle"
	"strings"
)

// DefaultSignupSecret is the fallback signup key when SIGNUP_SECRET is unset.
const DefaultSignupSecret = "8965"

// VerifySignupKey compares a submitted signup key against the configured
// secret. Surrounding whitespace in the candidate is ignored.
func VerifySignupKey(candidate, secret string) bool {
	if secret == "" {
		return false
	}
	candidate = strings.TrimSpace(candidate)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(secret)) == 1
}
