package model

import "testing"

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !IsValidCategory(c) {
			t.Errorf("IsValidCategory(%q) = false", c)
		}
	}
	if len(Categories) != 8 {
		t.Errorf("expected 8 categories, got %d", len(Categories))
	}
	if IsValidCategory("傘") {
		t.Error("expected unknown category to be rejected")
	}
	if IsValidCategory("") {
		t.Error("expected empty category to be rejected")
	}
}

func TestNewLostItemValidate(t *testing.T) {
	valid := NewLostItem{
		Category:       "バッグ",
		Location:       "体育館",
		RegistrantName: "田中",
		FoundDate:      "2024-01-05",
	}

	tests := []struct {
		name    string
		mutate  func(n *NewLostItem)
		wantErr bool
	}{
		{"valid", func(n *NewLostItem) {}, false},
		{"missing location", func(n *NewLostItem) { n.Location = "" }, true},
		{"missing category", func(n *NewLostItem) { n.Category = "" }, true},
		{"unknown category", func(n *NewLostItem) { n.Category = "傘" }, true},
		{"missing registrant", func(n *NewLostItem) { n.RegistrantName = "" }, true},
		{"missing found date", func(n *NewLostItem) { n.FoundDate = "" }, true},
		{"bad found date", func(n *NewLostItem) { n.FoundDate = "2024/01/05" }, true},
		{"description optional", func(n *NewLostItem) { n.Description = "" }, false},
	}

	for _, tt := range tests {
		n := valid
		tt.mutate(&n)
		err := n.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestNewLostItemNormalize(t *testing.T) {
	n := NewLostItem{Location: "  図書館 ", Category: " バッグ"}
	n.Normalize()
	if n.Location != "図書館" || n.Category != "バッグ" {
		t.Errorf("Normalize left whitespace: %+v", n)
	}
}

func TestLostItemUpdateValidate(t *testing.T) {
	bad := "傘"
	empty := " "
	badDate := "yesterday"
	good := "制服"
	clear := ""

	tests := []struct {
		name    string
		upd     LostItemUpdate
		wantErr bool
	}{
		{"empty update", LostItemUpdate{}, false},
		{"bad category", LostItemUpdate{Category: &bad}, true},
		{"blank location", LostItemUpdate{Location: &empty}, true},
		{"bad date", LostItemUpdate{FoundDate: &badDate}, true},
		{"clear date", LostItemUpdate{FoundDate: &clear}, false},
		{"good category", LostItemUpdate{Category: &good}, false},
	}

	for _, tt := range tests {
		err := tt.upd.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}

	if !(&LostItemUpdate{}).Empty() {
		t.Error("expected zero update to be empty")
	}
}
