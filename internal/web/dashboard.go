package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/erazemk/lostfound/internal/catalog"
	"github.com/erazemk/lostfound/internal/intake"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// Success notices keyed by the "ok" query parameter after a redirect.
var notices = map[string]string{
	"updated":          "忘れ物の情報を更新しました。",
	"returned":         "返却済みにしました。",
	"already":          "この忘れ物は既に返却済みです。",
	"deleted":          "忘れ物を削除しました。",
	"registrant":       "登録者を追加しました。",
	"registrants":      "登録者を一括登録しました。",
	"registrant_saved": "登録者を更新しました。",
	"registrant_gone":  "登録者を削除しました。",
}

type dashboardPage struct {
	PageData
	Items        []model.LostItem
	ShowReturned bool
	Query        string
	Empty        string
}

// Dashboard handles GET /admin/dashboard?returned=1&q=.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, "")
}

// renderDashboard also serves the error path of the dashboard's POST forms,
// which carry the view state in the body, so it reads with FormValue.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, errMsg string) {
	showReturned := r.FormValue("returned") == "1"

	items, err := store.ListItems(r.Context(), s.DB, showReturned)
	if err != nil {
		s.serverError(w, r, "failed to list items for dashboard", err)
		return
	}

	query := strings.TrimSpace(r.FormValue("q"))
	if query != "" {
		items = filterCategory(items, query)
	}

	data := &dashboardPage{
		PageData:     s.pageData(r, "管理画面"),
		Items:        items,
		ShowReturned: showReturned,
		Query:        query,
	}
	if len(items) == 0 {
		data.Empty = "該当する忘れ物はありません。"
	}
	data.Error = errMsg
	data.Success = notices[r.URL.Query().Get("ok")]

	s.Templates.Render(w, "dashboard.html", data)
}

// filterCategory keeps items whose category contains query, ignoring case.
func filterCategory(items []model.LostItem, query string) []model.LostItem {
	query = strings.ToLower(query)
	out := items[:0:0]
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Category), query) {
			out = append(out, it)
		}
	}
	return out
}

// dashboardURL rebuilds the dashboard location a form was posted from.
func dashboardURL(r *http.Request, ok string) string {
	v := url.Values{}
	if r.FormValue("returned") == "1" {
		v.Set("returned", "1")
	}
	if q := r.FormValue("q"); q != "" {
		v.Set("q", q)
	}
	if ok != "" {
		v.Set("ok", ok)
	}
	if len(v) == 0 {
		return "/admin/dashboard"
	}
	return "/admin/dashboard?" + v.Encode()
}

func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// ItemUpdateSubmit handles POST /admin/items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		s.notFound(w, r, "")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.renderDashboard(w, r, "フォームを読み込めませんでした。")
		return
	}

	upd := model.LostItemUpdate{}
	for field, dst := range map[string]**string{
		"category":        &upd.Category,
		"location":        &upd.Location,
		"description":     &upd.Description,
		"registrant_name": &upd.RegistrantName,
		"found_date":      &upd.FoundDate,
	} {
		if vals, present := r.PostForm[field]; present && len(vals) > 0 {
			v := strings.TrimSpace(vals[0])
			*dst = &v
		}
	}

	if err := upd.Validate(); err != nil {
		s.renderDashboard(w, r, userMessage("更新", err))
		return
	}
	if err := store.UpdateItem(r.Context(), s.DB, id, upd); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to update item", "item", id, "error", err)
		}
		s.renderDashboard(w, r, userMessage("更新", err))
		return
	}

	slog.Info("item updated", "user", GetWebClaims(r.Context()).Email, "item", id)
	http.Redirect(w, r, dashboardURL(r, "updated"), http.StatusSeeOther)
}

// ItemReturnSubmit handles POST /admin/items/{id}/return.
func (s *Server) ItemReturnSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		s.notFound(w, r, "")
		return
	}

	changed, err := store.ReturnItem(r.Context(), s.DB, id, s.clock())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to return item", "item", id, "error", err)
		}
		s.renderDashboard(w, r, userMessage("返却処理", err))
		return
	}

	if !changed {
		http.Redirect(w, r, dashboardURL(r, "already"), http.StatusSeeOther)
		return
	}
	slog.Info("item returned", "user", GetWebClaims(r.Context()).Email, "item", id, "via", "dashboard")
	http.Redirect(w, r, dashboardURL(r, "returned"), http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /admin/items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		s.notFound(w, r, "")
		return
	}

	if err := intake.Remove(r.Context(), s.DB, s.Bucket, id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to delete item", "item", id, "error", err)
		}
		s.renderDashboard(w, r, userMessage("削除", err))
		return
	}

	slog.Info("item deleted", "user", GetWebClaims(r.Context()).Email, "item", id)
	http.Redirect(w, r, dashboardURL(r, "deleted"), http.StatusSeeOther)
}

// ItemsCSV handles GET /admin/items.csv?returned=0|1. Without the parameter
// every item is exported.
func (s *Server) ItemsCSV(w http.ResponseWriter, r *http.Request) {
	var (
		items []model.LostItem
		err   error
	)
	switch r.URL.Query().Get("returned") {
	case "1":
		items, err = store.ListItems(r.Context(), s.DB, true)
	case "0":
		items, err = store.ListItems(r.Context(), s.DB, false)
	default:
		items, err = store.ListAllItems(r.Context(), s.DB)
	}
	if err != nil {
		s.serverError(w, r, "failed to list items for export", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", catalog.ContentDisposition(catalog.ExportFileName(s.clock().In(s.Config.Location()))))
	if err := catalog.WriteCSV(w, items, s.Config.Location()); err != nil {
		slog.Error("failed to write csv export", "error", err)
		return
	}
	slog.Info("items exported", "user", GetWebClaims(r.Context()).Email, "count", len(items))
}
