package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/lostfound/internal/model"
)

const itemColumns = `id, qr_code_uuid, category, location, description, registrant_name,
	found_date, image_url, is_returned, returned_at, created_at`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (*model.LostItem, error) {
	item := &model.LostItem{}
	var description, registrant, foundDate, image sql.NullString
	err := s.Scan(&item.ID, &item.QRToken, &item.Category, &item.Location, &description, &registrant,
		&foundDate, &image, &item.IsReturned, &item.ReturnedAt, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.RegistrantName = registrant.String
	item.FoundDate = foundDate.String
	item.ImagePath = image.String
	return item, nil
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateItem inserts a new unreturned item with a freshly generated QR token.
func CreateItem(ctx context.Context, db *sql.DB, in model.NewLostItem) (*model.LostItem, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (qr_code_uuid, category, location, description, registrant_name, found_date, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), in.Category, in.Location, nullString(in.Description),
		nullString(in.RegistrantName), nullString(in.FoundDate), nullString(in.ImagePath),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, returned or not.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.LostItem, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// GetItemByQRToken returns the item a printed QR code points at.
func GetItemByQRToken(ctx context.Context, db *sql.DB, token string) (*model.LostItem, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE qr_code_uuid = ?`, token,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item by qr token: %w", err)
	}
	return item, nil
}

// ListItems returns items with the given returned flag, newest first.
func ListItems(ctx context.Context, db *sql.DB, returned bool) ([]model.LostItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE is_returned = ?
		 ORDER BY created_at DESC, id DESC`, returned,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.LostItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListAllItems returns every item, newest first.
func ListAllItems(ctx context.Context, db *sql.DB) ([]model.LostItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing all items: %w", err)
	}
	defer rows.Close()

	var items []model.LostItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem applies a partial update to an item's descriptive fields.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, upd model.LostItemUpdate) error {
	var sets []string
	var args []any

	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, strings.TrimSpace(*upd.Location))
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullString(strings.TrimSpace(*upd.Description)))
	}
	if upd.RegistrantName != nil {
		sets = append(sets, "registrant_name = ?")
		args = append(args, nullString(strings.TrimSpace(*upd.RegistrantName)))
	}
	if upd.FoundDate != nil {
		sets = append(sets, "found_date = ?")
		args = append(args, nullString(strings.TrimSpace(*upd.FoundDate)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	result, err := db.ExecContext(ctx,
		`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireAffected(result, "updating item")
}

// ReturnItem marks an item as returned at the given time. It reports false
// without error if the item was already returned; returned_at is only
// ever written once.
func ReturnItem(ctx context.Context, db *sql.DB, id int64, at time.Time) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET is_returned = 1, returned_at = ? WHERE id = ? AND is_returned = 0`,
		at.UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("returning item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("returning item: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	// Nothing changed: either already returned or missing.
	var exists bool
	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("returning item: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("returning item %d: %w", id, ErrNotFound)
	}
	return false, nil
}

// DeleteItem permanently deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireAffected(result, "deleting item")
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
