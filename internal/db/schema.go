package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id              INTEGER PRIMARY KEY,
    qr_code_uuid    TEXT NOT NULL UNIQUE,
    category        TEXT NOT NULL,
    location        TEXT NOT NULL,
    description     TEXT,
    registrant_name TEXT,
    found_date      TEXT,
    image_url       TEXT,
    is_returned     INTEGER NOT NULL DEFAULT 0,
    returned_at     DATETIME,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((is_returned = 0 AND returned_at IS NULL) OR (is_returned = 1 AND returned_at IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_items_returned_created
    ON items(is_returned, created_at DESC);

CREATE TABLE IF NOT EXISTS registrants (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT UNIQUE,
    role       TEXT NOT NULL DEFAULT 'teacher' CHECK (role IN ('teacher', 'staff', 'other')),
    is_active  INTEGER NOT NULL DEFAULT 1,
    notes      TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS accounts (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
