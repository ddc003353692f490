package model

import (
	"strings"
	"time"
)

// Account is a sign-in identity (email + password). Whether it may
// administer the site is decided by the registrant allow-list.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

// ValidatePassword checks the password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "パスワードは6文字以上で入力してください。"}
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail is a minimal shape check: something on both sides of an '@'.
func IsValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}
