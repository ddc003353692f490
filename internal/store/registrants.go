package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/lostfound/internal/model"
)

const registrantColumns = `id, name, email, role, is_active, notes, created_at`

func scanRegistrant(s rowScanner) (*model.Registrant, error) {
	r := &model.Registrant{}
	var email, notes sql.NullString
	if err := s.Scan(&r.ID, &r.Name, &email, &r.Role, &r.IsActive, &notes, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Email = email.String
	r.Notes = notes.String
	return r, nil
}

// execer is implemented by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRegistrant(ctx context.Context, ex execer, in model.RegistrantInput) (int64, error) {
	result, err := ex.ExecContext(ctx,
		`INSERT INTO registrants (name, email, role, is_active, notes) VALUES (?, ?, ?, ?, ?)`,
		in.Name, nullString(in.Email), in.Role, in.IsActive, nullString(in.Notes),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return result.LastInsertId()
}

// CreateRegistrant inserts a single registrant.
func CreateRegistrant(ctx context.Context, db *sql.DB, in model.RegistrantInput) (*model.Registrant, error) {
	id, err := insertRegistrant(ctx, db, in)
	if err != nil {
		return nil, fmt.Errorf("creating registrant: %w", err)
	}
	return GetRegistrant(ctx, db, id)
}

// CreateRegistrants inserts all registrants as one batch. Either every row
// is inserted or none is.
func CreateRegistrants(ctx context.Context, db *sql.DB, ins []model.RegistrantInput) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning registrant batch: %w", err)
	}
	defer tx.Rollback()

	for i, in := range ins {
		if _, err := insertRegistrant(ctx, tx, in); err != nil {
			return 0, fmt.Errorf("creating registrant %d of %d (%s): %w", i+1, len(ins), in.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing registrant batch: %w", err)
	}
	return len(ins), nil
}

// GetRegistrant returns a registrant by ID.
func GetRegistrant(ctx context.Context, db *sql.DB, id int64) (*model.Registrant, error) {
	r, err := scanRegistrant(db.QueryRowContext(ctx,
		`SELECT `+registrantColumns+` FROM registrants WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting registrant: %w", err)
	}
	return r, nil
}

// GetRegistrantByEmail returns the registrant with the given email. It is
// the allow-list check behind every admin request.
func GetRegistrantByEmail(ctx context.Context, db *sql.DB, email string) (*model.Registrant, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}

	r, err := scanRegistrant(db.QueryRowContext(ctx,
		`SELECT `+registrantColumns+` FROM registrants WHERE email = ?`, email,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting registrant by email: %w", err)
	}
	return r, nil
}

// ListRegistrants returns all registrants, newest first.
func ListRegistrants(ctx context.Context, db *sql.DB) ([]model.Registrant, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+registrantColumns+` FROM registrants ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing registrants: %w", err)
	}
	defer rows.Close()

	var registrants []model.Registrant
	for rows.Next() {
		r, err := scanRegistrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning registrant: %w", err)
		}
		registrants = append(registrants, *r)
	}
	return registrants, rows.Err()
}

// UpdateRegistrant applies a partial update.
func UpdateRegistrant(ctx context.Context, db *sql.DB, id int64, upd model.RegistrantUpdate) error {
	var sets []string
	var args []any

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, nullString(*upd.Email))
	}
	if upd.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *upd.Role)
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, nullString(*upd.Notes))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	result, err := db.ExecContext(ctx,
		`UPDATE registrants SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("updating registrant: %w", ErrDuplicate)
		}
		return fmt.Errorf("updating registrant: %w", err)
	}
	return requireAffected(result, "updating registrant")
}

// SetRegistrantActive flips the active flag.
func SetRegistrantActive(ctx context.Context, db *sql.DB, id int64, active bool) error {
	return UpdateRegistrant(ctx, db, id, model.RegistrantUpdate{IsActive: &active})
}

// DeleteRegistrant permanently deletes a registrant. The account with the
// same email, if any, stays but no longer passes the admin gate.
func DeleteRegistrant(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM registrants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting registrant: %w", err)
	}
	return requireAffected(result, "deleting registrant")
}
