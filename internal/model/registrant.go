package model

import (
	"fmt"
	"strings"
	"time"
)

// Registrant is a staff member allowed to administer the site. The email
// is the allow-list key matched against the signed-in account.
type Registrant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Registrant roles.
const (
	RoleTeacher = "teacher"
	RoleStaff   = "staff"
	RoleOther   = "other"
)

// Roles lists the registrant roles in display order.
var Roles = []string{RoleTeacher, RoleStaff, RoleOther}

// IsValidRole reports whether role is a known registrant role.
func IsValidRole(role string) bool {
	switch role {
	case RoleTeacher, RoleStaff, RoleOther:
		return true
	}
	return false
}

// RoleLabel returns the Japanese display name of a role.
func RoleLabel(role string) string {
	switch role {
	case RoleTeacher:
		return "教員"
	case RoleStaff:
		return "職員"
	case RoleOther:
		return "その他"
	default:
		return role
	}
}

// RegistrantInput holds the fields of a registrant to be inserted.
type RegistrantInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
	Notes    string `json:"notes"`
}

// Normalize trims text fields, lower-cases the email and defaults the role.
func (in *RegistrantInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Role == "" {
		in.Role = RoleTeacher
	}
}

// Validate checks a normalized input.
func (in *RegistrantInput) Validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "氏名を入力してください"}
	}
	if in.Email != "" && !IsValidEmail(in.Email) {
		return &ValidationError{Field: "email", Message: "メールアドレスの形式が正しくありません"}
	}
	if !IsValidRole(in.Role) {
		return &ValidationError{Field: "role", Message: "役職が正しくありません"}
	}
	return nil
}

// RegistrantUpdate is a partial update. Nil fields are left unchanged;
// an empty Email clears it.
type RegistrantUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u *RegistrantUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Role == nil && u.IsActive == nil && u.Notes == nil
}

// Normalize trims the text fields that are set.
func (u *RegistrantUpdate) Normalize() {
	if u.Name != nil {
		v := strings.TrimSpace(*u.Name)
		u.Name = &v
	}
	if u.Email != nil {
		v := NormalizeEmail(*u.Email)
		u.Email = &v
	}
	if u.Notes != nil {
		v := strings.TrimSpace(*u.Notes)
		u.Notes = &v
	}
}

// Validate checks the fields being changed.
func (u *RegistrantUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return &ValidationError{Field: "name", Message: "氏名は空にできません"}
	}
	if u.Email != nil && *u.Email != "" && !IsValidEmail(*u.Email) {
		return &ValidationError{Field: "email", Message: "メールアドレスの形式が正しくありません"}
	}
	if u.Role != nil && !IsValidRole(*u.Role) {
		return &ValidationError{Field: "role", Message: "役職が正しくありません"}
	}
	return nil
}

// ParseBulkRegistrants parses one "name,email" pair per line. The email is
// optional. Blank lines and lines without a name are skipped; a present
// email without '@' rejects the whole input.
func ParseBulkRegistrants(text string) ([]RegistrantInput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "登録内容を入力してください"}
	}

	var out []RegistrantInput
	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		name := strings.TrimSpace(parts[0])
		email := ""
		if len(parts) > 1 {
			email = NormalizeEmail(parts[1])
		}
		if name == "" {
			continue
		}
		if email != "" && !IsValidEmail(email) {
			return nil, &ValidationError{
				Field:   "text",
				Message: fmt.Sprintf("%d行目のメールアドレスが正しくありません: %s", i+1, email),
			}
		}

		out = append(out, RegistrantInput{
			Name:     name,
			Email:    email,
			Role:     RoleTeacher,
			IsActive: true,
		})
	}

	if len(out) == 0 {
		return nil, &ValidationError{Field: "text", Message: "有効なデータがありません"}
	}
	return out, nil
}
