package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
)

func newItem(category, location string) model.NewLostItem {
	return model.NewLostItem{
		Category:       category,
		Location:       location,
		RegistrantName: "田中",
		FoundDate:      "2024-01-05",
		ImagePath:      "1700000000000_abc.jpg",
	}
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, newItem("バッグ", "体育館"))
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Location != "体育館" || item.Category != "バッグ" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.IsReturned || item.ReturnedAt != nil {
		t.Errorf("new item should be unreturned, got %+v", item)
	}
	if item.QRToken == "" {
		t.Error("expected generated QR token")
	}
	if item.FoundDate != "2024-01-05" {
		t.Errorf("expected found date to round-trip, got %q", item.FoundDate)
	}
	if item.Description != "" {
		t.Errorf("expected empty description, got %q", item.Description)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	byToken, err := GetItemByQRToken(ctx, database, item.QRToken)
	if err != nil {
		t.Fatalf("GetItemByQRToken: %v", err)
	}
	if byToken == nil || byToken.ID != item.ID {
		t.Errorf("expected lookup by token to find item %d, got %+v", item.ID, byToken)
	}
}

func TestQRTokensAreUnique(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateItem(ctx, database, newItem("バッグ", "A"))
	b, _ := CreateItem(ctx, database, newItem("バッグ", "B"))
	if a.QRToken == b.QRToken {
		t.Errorf("expected distinct tokens, both %q", a.QRToken)
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := GetItem(ctx, database, 42)
	if err != nil || item != nil {
		t.Errorf("expected nil, nil for missing item, got %+v, %v", item, err)
	}
	item, err = GetItemByQRToken(ctx, database, "no-such-token")
	if err != nil || item != nil {
		t.Errorf("expected nil, nil for missing token, got %+v, %v", item, err)
	}
}

func TestListItemsByReturnedFlag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := CreateItem(ctx, database, newItem("バッグ", "first"))
	second, _ := CreateItem(ctx, database, newItem("制服", "second"))
	third, _ := CreateItem(ctx, database, newItem("弁当箱", "third"))

	if _, err := ReturnItem(ctx, database, second.ID, time.Now()); err != nil {
		t.Fatalf("ReturnItem: %v", err)
	}

	stored, err := ListItems(ctx, database, false)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored items, got %d", len(stored))
	}
	// Newest first.
	if stored[0].ID != third.ID || stored[1].ID != first.ID {
		t.Errorf("unexpected order: %d, %d", stored[0].ID, stored[1].ID)
	}

	returned, _ := ListItems(ctx, database, true)
	if len(returned) != 1 || returned[0].ID != second.ID {
		t.Errorf("expected only item %d to be returned, got %+v", second.ID, returned)
	}

	all, err := ListAllItems(ctx, database)
	if err != nil {
		t.Fatalf("ListAllItems: %v", err)
	}
	if len(all) != 3 || all[0].ID != third.ID || all[2].ID != first.ID {
		t.Errorf("unexpected full list: %+v", all)
	}
}

func TestReturnItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("バッグ", "図書館"))

	before := time.Now()
	changed, err := ReturnItem(ctx, database, item.ID, time.Now())
	if err != nil {
		t.Fatalf("ReturnItem: %v", err)
	}
	if !changed {
		t.Fatal("expected first return to change the item")
	}

	got, _ := GetItem(ctx, database, item.ID)
	if !got.IsReturned {
		t.Fatal("expected item to be returned")
	}
	if got.ReturnedAt == nil {
		t.Fatal("expected returned_at to be set")
	}
	if d := got.ReturnedAt.Sub(before); d < -time.Second || d > 5*time.Second {
		t.Errorf("returned_at too far from call time: %v", d)
	}

	// A second confirmation is a no-op and keeps the first timestamp.
	changed, err = ReturnItem(ctx, database, item.ID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("second ReturnItem: %v", err)
	}
	if changed {
		t.Error("expected second return to be a no-op")
	}
	again, _ := GetItem(ctx, database, item.ID)
	if !again.ReturnedAt.Equal(*got.ReturnedAt) {
		t.Errorf("returned_at changed from %v to %v", got.ReturnedAt, again.ReturnedAt)
	}
}

func TestReturnItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := ReturnItem(context.Background(), database, 99, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReturnedFlagMatchesReturnedAt(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		item, _ := CreateItem(ctx, database, newItem("その他", "x"))
		if i%2 == 0 {
			ReturnItem(ctx, database, item.ID, time.Now())
		}
	}

	for _, returned := range []bool{false, true} {
		items, _ := ListItems(ctx, database, returned)
		for _, it := range items {
			if it.IsReturned != (it.ReturnedAt != nil) {
				t.Errorf("item %d: is_returned=%v returned_at=%v", it.ID, it.IsReturned, it.ReturnedAt)
			}
		}
	}

	// The table rejects rows that break the invariant.
	_, err := database.ExecContext(ctx, `UPDATE items SET is_returned = 1 WHERE returned_at IS NULL`)
	if err == nil {
		t.Error("expected CHECK constraint to reject is_returned without returned_at")
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("バッグ", "体育館"))

	loc := "  音楽室 "
	desc := "青い"
	clear := ""
	err := UpdateItem(ctx, database, item.ID, model.LostItemUpdate{
		Location:    &loc,
		Description: &desc,
		FoundDate:   &clear,
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Location != "音楽室" || got.Description != "青い" {
		t.Errorf("unexpected item after update: %+v", got)
	}
	if got.FoundDate != "" {
		t.Errorf("expected found date cleared, got %q", got.FoundDate)
	}
	if got.Category != "バッグ" {
		t.Errorf("expected category untouched, got %q", got.Category)
	}
	if !got.CreatedAt.Equal(item.CreatedAt) {
		t.Error("created_at must not change on update")
	}

	if err := UpdateItem(ctx, database, 999, model.LostItemUpdate{Location: &loc}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing item, got %v", err)
	}
	if err := UpdateItem(ctx, database, item.ID, model.LostItemUpdate{}); err != nil {
		t.Errorf("empty update should be a no-op, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("バッグ", "体育館"))
	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be gone")
	}
	if err := DeleteItem(ctx, database, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
