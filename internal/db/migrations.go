package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: registrant lookups by email happen on every admin request.
	`CREATE INDEX IF NOT EXISTS idx_registrants_email ON registrants(email)`,
	// Migration 2: the return page resolves items by QR token.
	`CREATE INDEX IF NOT EXISTS idx_items_qr ON items(qr_code_uuid)`,
}

// Migrate ensures the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
