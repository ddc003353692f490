// Package catalog holds the read-side helpers shared by the browse page,
// the admin dashboard and the CSV export: filtering, month buckets and
// display formatting.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/erazemk/lostfound/internal/model"
)

// Empty-state messages of the browse page.
const (
	MsgNoItems   = "現在、保管中の忘れ物はありません"
	MsgNoMatches = "検索条件に一致する忘れ物が見つかりませんでした"
)

// Filter narrows an item list. A zero field matches every item. Loc is the
// time zone month buckets are computed in; nil means UTC.
type Filter struct {
	Location string
	Category string
	Month    string // YYYY-MM
	Loc      *time.Location
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Location == "" && f.Category == "" && f.Month == ""
}

// Match reports whether item satisfies all three predicates.
func (f Filter) Match(item model.LostItem) bool {
	if f.Location != "" &&
		!strings.Contains(strings.ToLower(item.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if f.Month != "" && ItemMonth(item, f.Loc) != f.Month {
		return false
	}
	return true
}

// Apply returns the items matching f, preserving order.
func (f Filter) Apply(items []model.LostItem) []model.LostItem {
	if f.IsZero() {
		return items
	}
	out := make([]model.LostItem, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// ItemMonth returns the YYYY-MM bucket of an item: its found date when set
// and parseable, otherwise its creation time in loc.
func ItemMonth(item model.LostItem, loc *time.Location) string {
	if item.FoundDate != "" {
		if d, err := time.Parse(model.FoundDateLayout, item.FoundDate); err == nil {
			return d.Format("2006-01")
		}
	}
	if item.CreatedAt.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return item.CreatedAt.In(loc).Format("2006-01")
}

// AvailableMonths returns the distinct month buckets of items, newest first.
func AvailableMonths(items []model.LostItem, loc *time.Location) []string {
	seen := make(map[string]bool)
	var months []string
	for _, item := range items {
		m := ItemMonth(item, loc)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// MonthLabel renders a YYYY-MM bucket as "2024年3月". The empty bucket is
// the "all months" option.
func MonthLabel(month string) string {
	if month == "" {
		return "すべて"
	}
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return fmt.Sprintf("%d年%d月", t.Year(), int(t.Month()))
}

// EmptyMessage picks the empty-state text for a filtered list. It returns
// "" when there is something to show.
func EmptyMessage(all, shown []model.LostItem) string {
	switch {
	case len(all) == 0:
		return MsgNoItems
	case len(shown) == 0:
		return MsgNoMatches
	default:
		return ""
	}
}
