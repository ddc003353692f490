package catalog

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lostfound/internal/model"
)

func TestWriteCSV(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	returnedAt := time.Date(2024, 3, 20, 6, 0, 0, 0, time.UTC)
	items := []model.LostItem{
		{
			ID: 7, Category: "財布・ポーチ", Location: "図書室", FoundDate: "2024-03-18",
			RegistrantName: "田中", Description: `黒い "長財布", 名前なし`,
			IsReturned: true, ReturnedAt: &returnedAt,
			CreatedAt: time.Date(2024, 3, 18, 0, 15, 0, 0, time.UTC),
		},
		{
			ID: 8, Category: "その他", Location: "昇降口",
			CreatedAt: time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items, jst))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "missing BOM")

	lines := strings.Split(strings.TrimPrefix(out, "\ufeff"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,カテゴリ,場所,拾得日,登録者,説明,返却済み,返却日時,登録日時", lines[0])
	assert.Equal(t, `"8","その他","昇降口","","","","いいえ","","2024年3月19日 09:00"`, lines[2])

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"7", "財布・ポーチ", "図書室", "2024-03-18", "田中", `黒い "長財布", 名前なし`,
		"はい", "2024年3月20日 15:00", "2024年3月18日 09:15",
	}, records[1])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, time.UTC))
	assert.Equal(t, "\ufeffID,カテゴリ,場所,拾得日,登録者,説明,返却済み,返却日時,登録日時", buf.String())
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "忘れ物一覧_2024-03-05.csv", ExportFileName(now))
}

func TestContentDisposition(t *testing.T) {
	got := ContentDisposition(ExportFileName(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.True(t, strings.HasPrefix(got, `attachment; filename="lostfound.csv"; filename*=UTF-8''`))
	assert.Contains(t, got, "_2024-03-05.csv")
	assert.NotContains(t, got, "忘れ物")
}
