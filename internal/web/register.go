package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/intake"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// Messages for registration forms that could not be read.
const (
	MsgPhotoTooLarge  = "写真のサイズが大きすぎます（10MBまで）"
	MsgFormUnreadable = "フォームを読み込めませんでした。もう一度お試しください。"
)

type registerPage struct {
	PageData
	Form        model.NewLostItem
	Registrants []model.Registrant
}

// RegisterPage handles GET /admin/register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	form := model.NewLostItem{FoundDate: s.clock().In(s.Config.Location()).Format(model.FoundDateLayout)}
	if reg := GetWebRegistrant(r.Context()); reg != nil {
		form.RegistrantName = reg.Name
	}
	s.renderRegister(w, r, form, "")
}

func (s *Server) renderRegister(w http.ResponseWriter, r *http.Request, form model.NewLostItem, errMsg string) {
	registrants, err := store.ListRegistrants(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list registrants", "error", err)
	}
	data := &registerPage{
		PageData:    s.pageData(r, "忘れ物の登録"),
		Form:        form,
		Registrants: registrants,
	}
	data.Error = errMsg
	s.Templates.Render(w, "register.html", data)
}

// RegisterSubmit handles POST /admin/register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.renderRegister(w, r, model.NewLostItem{}, MsgPhotoTooLarge)
			return
		}
		slog.Warn("failed to read registration form", "error", err)
		s.renderRegister(w, r, model.NewLostItem{}, MsgFormUnreadable)
		return
	}

	form := model.NewLostItem{
		Category:       r.FormValue("category"),
		Location:       r.FormValue("location"),
		Description:    r.FormValue("description"),
		RegistrantName: r.FormValue("registrant_name"),
		FoundDate:      r.FormValue("found_date"),
	}

	var photo io.Reader
	if file, _, err := r.FormFile("image"); err == nil {
		defer file.Close()
		photo = file
	}

	item, err := intake.Register(r.Context(), s.DB, s.Bucket, form, photo)
	if err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			slog.Error("failed to register item", "error", err)
		}
		s.renderRegister(w, r, form, userMessage("登録", err))
		return
	}

	slog.Info("item registered", "user", GetWebClaims(r.Context()).Email, "item", item.ID, "category", item.Category)
	http.Redirect(w, r, "/admin/register/"+item.QRToken, http.StatusSeeOther)
}

// RegisterDonePage handles GET /admin/register/{token}, the printable label.
func (s *Server) RegisterDonePage(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItemByQRToken(r.Context(), s.DB, r.PathValue("token"))
	if err != nil {
		s.serverError(w, r, "failed to get registered item", err)
		return
	}
	if item == nil {
		s.notFound(w, r, "")
		return
	}

	s.Templates.Render(w, "register_done.html", &struct {
		PageData
		Item      *model.LostItem
		PrintedAt time.Time
	}{
		PageData:  s.pageData(r, "登録完了"),
		Item:      item,
		PrintedAt: s.clock(),
	})
}
