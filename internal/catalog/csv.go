package catalog

import (
	"bufio"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/lostfound/internal/model"
)

// csvHeader is the header row of the export.
var csvHeader = []string{"ID", "カテゴリ", "場所", "拾得日", "登録者", "説明", "返却済み", "返却日時", "登録日時"}

// utf8BOM makes spreadsheet software detect UTF-8.
const utf8BOM = "\ufeff"

// WriteCSV writes items as a BOM-prefixed CSV document. Every data cell is
// quoted. Timestamps are shown in loc.
func WriteCSV(w io.Writer, items []model.LostItem, loc *time.Location) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(utf8BOM)
	bw.WriteString(strings.Join(csvHeader, ","))

	for _, item := range items {
		returned := "いいえ"
		returnedAt := ""
		if item.IsReturned {
			returned = "はい"
		}
		if item.ReturnedAt != nil {
			returnedAt = FormatDateTime(*item.ReturnedAt, loc)
		}

		cells := []string{
			strconv.FormatInt(item.ID, 10),
			item.Category,
			item.Location,
			item.FoundDate,
			item.RegistrantName,
			item.Description,
			returned,
			returnedAt,
			FormatDateTime(item.CreatedAt, loc),
		}
		bw.WriteString("\n")
		for i, c := range cells {
			if i > 0 {
				bw.WriteString(",")
			}
			bw.WriteString(quote(c))
		}
	}

	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportFileName is the download name of an export made at now.
func ExportFileName(now time.Time) string {
	return "忘れ物一覧_" + now.Format("2006-01-02") + ".csv"
}

// ContentDisposition is the attachment header for a download name. The
// plain filename is an ASCII fallback for old clients.
func ContentDisposition(name string) string {
	return `attachment; filename="lostfound.csv"; filename*=UTF-8''` + url.PathEscape(name)
}
