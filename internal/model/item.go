package model

import (
	"strings"
	"time"
)

// LostItem is a found object waiting to be picked up by its owner.
type LostItem struct {
	ID             int64      `json:"id"`
	QRToken        string     `json:"qr_code_uuid"`
	Category       string     `json:"category"`
	Location       string     `json:"location"`
	Description    string     `json:"description,omitempty"`
	RegistrantName string     `json:"registrant_name,omitempty"`
	FoundDate      string     `json:"found_date,omitempty"`
	ImagePath      string     `json:"image_url,omitempty"`
	IsReturned     bool       `json:"is_returned"`
	ReturnedAt     *time.Time `json:"returned_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Categories lists the accepted item categories in display order.
var Categories = []string{
	"スマホ・周辺機器",
	"財布・ポーチ",
	"運動着",
	"制服",
	"靴・ベルト",
	"弁当箱",
	"バッグ",
	"その他",
}

// FoundDateLayout is the layout of LostItem.FoundDate.
const FoundDateLayout = "2006-01-02"

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// NewLostItem holds the fields supplied when registering an item.
type NewLostItem struct {
	Category       string `json:"category"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	RegistrantName string `json:"registrant_name"`
	FoundDate      string `json:"found_date"`
	ImagePath      string `json:"-"`
}

// Normalize trims surrounding whitespace from all text fields.
func (n *NewLostItem) Normalize() {
	n.Category = strings.TrimSpace(n.Category)
	n.Location = strings.TrimSpace(n.Location)
	n.Description = strings.TrimSpace(n.Description)
	n.RegistrantName = strings.TrimSpace(n.RegistrantName)
	n.FoundDate = strings.TrimSpace(n.FoundDate)
}

// Validate checks the fields required at registration time. The image is
// checked separately by the caller since it is uploaded before the insert.
func (n *NewLostItem) Validate() error {
	if n.Location == "" || n.Category == "" || n.RegistrantName == "" || n.FoundDate == "" {
		return &ValidationError{Message: "場所、カテゴリ、写真、登録者名、拾得日は必須です"}
	}
	if !IsValidCategory(n.Category) {
		return &ValidationError{Field: "category", Message: "カテゴリが正しくありません"}
	}
	if _, err := time.Parse(FoundDateLayout, n.FoundDate); err != nil {
		return &ValidationError{Field: "found_date", Message: "拾得日の形式が正しくありません"}
	}
	return nil
}

// LostItemUpdate is a partial update of an item's editable fields.
// Nil fields are left unchanged.
type LostItemUpdate struct {
	Category       *string `json:"category,omitempty"`
	Location       *string `json:"location,omitempty"`
	Description    *string `json:"description,omitempty"`
	RegistrantName *string `json:"registrant_name,omitempty"`
	FoundDate      *string `json:"found_date,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u *LostItemUpdate) Empty() bool {
	return u.Category == nil && u.Location == nil && u.Description == nil &&
		u.RegistrantName == nil && u.FoundDate == nil
}

// Validate checks the fields that are being changed.
func (u *LostItemUpdate) Validate() error {
	if u.Category != nil && !IsValidCategory(*u.Category) {
		return &ValidationError{Field: "category", Message: "カテゴリが正しくありません"}
	}
	if u.Location != nil && strings.TrimSpace(*u.Location) == "" {
		return &ValidationError{Field: "location", Message: "場所は空にできません"}
	}
	if u.FoundDate != nil && *u.FoundDate != "" {
		if _, err := time.Parse(FoundDateLayout, *u.FoundDate); err != nil {
			return &ValidationError{Field: "found_date", Message: "拾得日の形式が正しくありません"}
		}
	}
	return nil
}
