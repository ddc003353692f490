package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
)

func TestCreateAndGetAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, err := CreateAccount(ctx, database, "Tanaka@X.com", "hash123")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if a.Email != "tanaka@x.com" {
		t.Errorf("expected normalized email, got %q", a.Email)
	}

	got, err := GetAccountByEmail(ctx, database, "tanaka@x.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if got == nil || got.ID != a.ID || got.PasswordHash != "hash123" {
		t.Errorf("unexpected account: %+v", got)
	}

	if _, err := CreateAccount(ctx, database, "tanaka@x.com", "other"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	missing, err := GetAccountByEmail(ctx, database, "nobody@x.com")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil, got %+v, %v", missing, err)
	}
}

func TestSignUpCreatesRegistrant(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	id, err := SignUp(ctx, database, "hash", model.RegistrantInput{
		Name: "田中", Email: "Tanaka@x.com", Role: model.RoleStaff, IsActive: true,
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	a, _ := GetAccount(ctx, database, id)
	if a == nil || a.Email != "tanaka@x.com" {
		t.Fatalf("unexpected account: %+v", a)
	}
	r, _ := GetRegistrantByEmail(ctx, database, "tanaka@x.com")
	if r == nil || r.Role != model.RoleStaff {
		t.Fatalf("expected registrant row, got %+v", r)
	}
}

func TestSignUpKeepsExistingRegistrant(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	pre, _ := CreateRegistrant(ctx, database, model.RegistrantInput{
		Name: "田中太郎", Email: "tanaka@x.com", Role: model.RoleTeacher, IsActive: true, Notes: "一括登録",
	})

	if _, err := SignUp(ctx, database, "hash", model.RegistrantInput{
		Name: "たなか", Email: "tanaka@x.com", Role: model.RoleOther, IsActive: true,
	}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	all, _ := ListRegistrants(ctx, database)
	if len(all) != 1 || all[0].ID != pre.ID || all[0].Name != "田中太郎" {
		t.Errorf("expected pre-registered row to be kept, got %+v", all)
	}
}

func TestSignUpDuplicateAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	reg := model.RegistrantInput{Name: "田中", Email: "t@x.com", Role: model.RoleTeacher, IsActive: true}
	if _, err := SignUp(ctx, database, "hash", reg); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := SignUp(ctx, database, "hash", reg); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestUpdateAccountPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateAccount(ctx, database, "t@x.com", "old")
	if err := UpdateAccountPassword(ctx, database, a.ID, "new"); err != nil {
		t.Fatalf("UpdateAccountPassword: %v", err)
	}
	got, _ := GetAccount(ctx, database, a.ID)
	if got.PasswordHash != "new" {
		t.Errorf("expected new hash, got %q", got.PasswordHash)
	}
	if err := UpdateAccountPassword(ctx, database, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
