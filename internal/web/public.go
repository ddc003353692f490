package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/catalog"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/objstore"
	"github.com/erazemk/lostfound/internal/qr"
	"github.com/erazemk/lostfound/internal/store"
)

type browsePage struct {
	PageData
	Gate         bool
	ViewerDomain string
	Items        []model.LostItem
	Filter       catalog.Filter
	Months       []string
	Empty        string
	Total        int
}

// BrowsePage handles GET /. Until the viewer gate is passed only the email
// form is shown.
func (s *Server) BrowsePage(w http.ResponseWriter, r *http.Request) {
	data := &browsePage{
		PageData:     s.pageData(r, "忘れ物一覧"),
		ViewerDomain: s.Config.ViewerDomain,
	}
	if !viewerVerified(r) {
		data.Gate = true
		s.Templates.Render(w, "browse.html", data)
		return
	}

	all, err := store.ListItems(r.Context(), s.DB, false)
	if err != nil {
		s.serverError(w, r, "failed to list items", err)
		return
	}

	q := r.URL.Query()
	data.Filter = catalog.Filter{
		Location: strings.TrimSpace(q.Get("location")),
		Category: q.Get("category"),
		Month:    q.Get("month"),
		Loc:      s.Config.Location(),
	}
	data.Items = data.Filter.Apply(all)
	data.Months = catalog.AvailableMonths(all, data.Filter.Loc)
	data.Empty = catalog.EmptyMessage(all, data.Items)
	data.Total = len(all)

	s.Templates.Render(w, "browse.html", data)
}

// ViewerSubmit handles POST /viewer.
func (s *Server) ViewerSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	if !auth.IsAllowedViewerEmail(email, s.Config.ViewerDomain) {
		data := &browsePage{
			PageData:     s.pageData(r, "忘れ物一覧"),
			Gate:         true,
			ViewerDomain: s.Config.ViewerDomain,
		}
		data.Error = "学校のメールアドレス（" + s.Config.ViewerDomain + "）を入力してください。"
		s.Templates.Render(w, "browse.html", data)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.ViewerCookieName,
		Value:    "1",
		Path:     "/",
		MaxAge:   int(s.Config.ViewerCookieMaxAge().Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemDetailPage handles GET /item/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.notFound(w, r, "")
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "failed to get item", err)
		return
	}
	if item == nil {
		s.notFound(w, r, "忘れ物が見つかりませんでした。")
		return
	}

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item *model.LostItem
	}{
		PageData: s.pageData(r, item.Category),
		Item:     item,
	})
}

type returnPage struct {
	PageData
	Item    *model.LostItem
	Token   string
	Done    bool
	Already bool
}

// ReturnPage handles GET /return/{token}, the page a printed QR code opens.
func (s *Server) ReturnPage(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	item, err := store.GetItemByQRToken(r.Context(), s.DB, token)
	if err != nil {
		s.serverError(w, r, "failed to get item by qr token", err)
		return
	}
	if item == nil {
		s.notFound(w, r, "このQRコードの忘れ物は登録されていません。")
		return
	}

	s.Templates.Render(w, "return.html", &returnPage{
		PageData: s.pageData(r, "返却確認"),
		Item:     item,
		Token:    token,
		Already:  item.IsReturned,
	})
}

// ReturnSubmit handles POST /return/{token}.
func (s *Server) ReturnSubmit(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	item, err := store.GetItemByQRToken(r.Context(), s.DB, token)
	if err != nil {
		s.serverError(w, r, "failed to get item by qr token", err)
		return
	}
	if item == nil {
		s.notFound(w, r, "このQRコードの忘れ物は登録されていません。")
		return
	}

	data := &returnPage{PageData: s.pageData(r, "返却確認"), Token: token}

	changed, err := store.ReturnItem(r.Context(), s.DB, item.ID, s.clock())
	if err != nil {
		slog.Error("failed to return item", "item", item.ID, "error", err)
		data.Item = item
		data.Error = userMessage("返却処理", err)
		s.Templates.Render(w, "return.html", data)
		return
	}
	if changed {
		slog.Info("item returned", "item", item.ID, "via", "qr")
	}

	data.Item, err = store.GetItem(r.Context(), s.DB, item.ID)
	if err != nil || data.Item == nil {
		data.Item = item
	}
	data.Done = changed
	data.Already = !changed
	s.Templates.Render(w, "return.html", data)
}

// QRCode handles GET /qr/{token}.
func (s *Server) QRCode(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	item, err := store.GetItemByQRToken(r.Context(), s.DB, token)
	if err != nil {
		slog.Error("failed to get item by qr token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 || size > 1024 {
		size = qr.DefaultSize
	}

	png, err := qr.PNG(qr.ReturnURL(s.baseURL(r), token), size)
	if err != nil {
		slog.Error("failed to render qr code", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write qr response", "error", err)
	}
}

// StorageObject handles GET /storage/v1/object/public/<bucket>/{name}.
func (s *Server) StorageObject(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f, err := s.Bucket.Open(name)
	if err != nil {
		if errors.Is(err, objstore.ErrInvalidName) || errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		slog.Error("failed to open object", "object", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, f); err != nil {
		slog.Error("failed to write object response", "object", name, "error", err)
	}
}
