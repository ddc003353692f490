package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
)

// CreateAccount creates a sign-in account.
func CreateAccount(ctx context.Context, db *sql.DB, email, passwordHash string) (*model.Account, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO accounts (email, password_hash) VALUES (?, ?)`,
		model.NormalizeEmail(email), passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("creating account: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting account id: %w", err)
	}

	return GetAccount(ctx, db, id)
}

// GetAccount returns an account by ID.
func GetAccount(ctx context.Context, db *sql.DB, id int64) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByEmail returns an account by email.
func GetAccountByEmail(ctx context.Context, db *sql.DB, email string) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`,
		model.NormalizeEmail(email),
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by email: %w", err)
	}
	return a, nil
}

// UpdateAccountPassword replaces an account's password hash.
func UpdateAccountPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ? WHERE id = ?`, passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating account password: %w", err)
	}
	return requireAffected(result, "updating account password")
}

// SignUp creates an account and, unless one already exists for the same
// email, its registrant row. Both writes happen in one transaction.
// Account creation fails with ErrDuplicate if the email is taken.
func SignUp(ctx context.Context, db *sql.DB, passwordHash string, reg model.RegistrantInput) (accountID int64, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning signup: %w", err)
	}
	defer tx.Rollback()

	email := model.NormalizeEmail(reg.Email)
	result, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (email, password_hash) VALUES (?, ?)`, email, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("creating account: %w", ErrDuplicate)
		}
		return 0, fmt.Errorf("creating account: %w", err)
	}
	accountID, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting account id: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrants WHERE email = ?)`, email,
	).Scan(&exists); err != nil {
		return 0, fmt.Errorf("checking registrant: %w", err)
	}
	if !exists {
		reg.Email = email
		if _, err := insertRegistrant(ctx, tx, reg); err != nil {
			return 0, fmt.Errorf("creating registrant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing signup: %w", err)
	}
	return accountID, nil
}
