package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Setting keys.
const (
	SettingJWTSecret = "jwt_secret"
)

// GetSetting returns a stored setting, or "" if it is not set.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, nil
}

// ensureSetting stores candidate under key unless a value already exists
// and returns the stored value. INSERT OR IGNORE followed by a re-read keeps
// concurrent first starts from disagreeing.
func ensureSetting(ctx context.Context, db *sql.DB, key, candidate string) (string, error) {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", key, err)
	}

	value, err := GetSetting(ctx, db, key)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetJWTSecret returns the session signing key, generating and storing a
// random one on first use.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return ensureSetting(ctx, db, SettingJWTSecret, hex.EncodeToString(buf))
}
