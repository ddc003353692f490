package catalog

import (
	"fmt"
	"time"

	"github.com/erazemk/lostfound/internal/model"
)

// FormatDateTime renders t in loc as "2024年3月15日 10:30".
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%d年%d月%d日 %02d:%02d", t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}

// FormatDate renders a YYYY-MM-DD found date as "2024年3月15日". Values that
// do not parse are returned unchanged.
func FormatDate(date string) string {
	d, err := time.Parse(model.FoundDateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d年%d月%d日", d.Year(), int(d.Month()), d.Day())
}

// ShortID is the prefix of a QR token printed on labels.
func ShortID(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
