package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
)

func TestCreateAndGetRegistrant(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	r, err := CreateRegistrant(ctx, database, model.RegistrantInput{
		Name: "田中太郎", Email: "tanaka@x.com", Role: model.RoleTeacher, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateRegistrant: %v", err)
	}
	if r.Name != "田中太郎" || r.Email != "tanaka@x.com" || !r.IsActive {
		t.Errorf("unexpected registrant: %+v", r)
	}

	got, err := GetRegistrantByEmail(ctx, database, " TANAKA@x.com")
	if err != nil {
		t.Fatalf("GetRegistrantByEmail: %v", err)
	}
	if got == nil || got.ID != r.ID {
		t.Errorf("expected case-insensitive lookup to find %d, got %+v", r.ID, got)
	}

	missing, err := GetRegistrantByEmail(ctx, database, "nobody@x.com")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown email, got %+v, %v", missing, err)
	}
	empty, err := GetRegistrantByEmail(ctx, database, "")
	if err != nil || empty != nil {
		t.Errorf("expected nil, nil for empty email, got %+v, %v", empty, err)
	}
}

func TestCreateRegistrantDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	in := model.RegistrantInput{Name: "A", Email: "a@x.com", Role: model.RoleStaff, IsActive: true}
	if _, err := CreateRegistrant(ctx, database, in); err != nil {
		t.Fatalf("CreateRegistrant: %v", err)
	}
	_, err := CreateRegistrant(ctx, database, in)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestRegistrantsWithoutEmailCoexist(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"佐藤花子", "鈴木次郎"} {
		if _, err := CreateRegistrant(ctx, database, model.RegistrantInput{Name: name, Role: model.RoleTeacher}); err != nil {
			t.Fatalf("CreateRegistrant(%s): %v", name, err)
		}
	}
	all, _ := ListRegistrants(ctx, database)
	if len(all) != 2 {
		t.Errorf("expected 2 registrants, got %d", len(all))
	}
}

func TestCreateRegistrantsBatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ins, err := model.ParseBulkRegistrants("田中太郎,tanaka@x.com\n佐藤花子\n")
	if err != nil {
		t.Fatalf("ParseBulkRegistrants: %v", err)
	}

	n, err := CreateRegistrants(ctx, database, ins)
	if err != nil {
		t.Fatalf("CreateRegistrants: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 inserted, got %d", n)
	}

	all, _ := ListRegistrants(ctx, database)
	if len(all) != 2 {
		t.Fatalf("expected 2 registrants, got %d", len(all))
	}
	// Newest first.
	if all[0].Name != "佐藤花子" || all[0].Email != "" {
		t.Errorf("unexpected first registrant: %+v", all[0])
	}
}

func TestCreateRegistrantsBatchIsAtomic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateRegistrant(ctx, database, model.RegistrantInput{Name: "既存", Email: "dup@x.com", Role: model.RoleTeacher})

	ins := []model.RegistrantInput{
		{Name: "新人", Email: "new@x.com", Role: model.RoleTeacher, IsActive: true},
		{Name: "重複", Email: "dup@x.com", Role: model.RoleTeacher, IsActive: true},
	}
	if _, err := CreateRegistrants(ctx, database, ins); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	all, _ := ListRegistrants(ctx, database)
	if len(all) != 1 {
		t.Errorf("expected batch to be rolled back, got %d registrants", len(all))
	}
}

func TestUpdateRegistrant(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	r, _ := CreateRegistrant(ctx, database, model.RegistrantInput{Name: "田中", Email: "t@x.com", Role: model.RoleTeacher, IsActive: true})

	role := model.RoleStaff
	notes := "3年担任"
	noEmail := ""
	if err := UpdateRegistrant(ctx, database, r.ID, model.RegistrantUpdate{Role: &role, Notes: &notes, Email: &noEmail}); err != nil {
		t.Fatalf("UpdateRegistrant: %v", err)
	}

	got, _ := GetRegistrant(ctx, database, r.ID)
	if got.Role != model.RoleStaff || got.Notes != "3年担任" || got.Email != "" || got.Name != "田中" {
		t.Errorf("unexpected registrant after update: %+v", got)
	}

	if err := UpdateRegistrant(ctx, database, 999, model.RegistrantUpdate{Role: &role}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetRegistrantActive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	r, _ := CreateRegistrant(ctx, database, model.RegistrantInput{Name: "田中", Role: model.RoleTeacher, IsActive: true})

	if err := SetRegistrantActive(ctx, database, r.ID, false); err != nil {
		t.Fatalf("SetRegistrantActive: %v", err)
	}
	got, _ := GetRegistrant(ctx, database, r.ID)
	if got.IsActive {
		t.Error("expected registrant to be inactive")
	}

	SetRegistrantActive(ctx, database, r.ID, true)
	got, _ = GetRegistrant(ctx, database, r.ID)
	if !got.IsActive {
		t.Error("expected registrant to be active again")
	}
}

func TestDeleteRegistrant(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	r, _ := CreateRegistrant(ctx, database, model.RegistrantInput{Name: "田中", Email: "t@x.com", Role: model.RoleTeacher})
	if err := DeleteRegistrant(ctx, database, r.ID); err != nil {
		t.Fatalf("DeleteRegistrant: %v", err)
	}
	got, _ := GetRegistrantByEmail(ctx, database, "t@x.com")
	if got != nil {
		t.Error("expected registrant to be deleted")
	}
	if err := DeleteRegistrant(ctx, database, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
