package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

type registrantsPage struct {
	PageData
	Registrants []model.Registrant
	Form        model.RegistrantInput
	BulkText    string
}

// RegistrantsPage handles GET /admin/registrants.
func (s *Server) RegistrantsPage(w http.ResponseWriter, r *http.Request) {
	data := &registrantsPage{Form: model.RegistrantInput{Role: model.RoleTeacher, IsActive: true}}
	data.Success = notices[r.URL.Query().Get("ok")]
	s.renderRegistrants(w, r, data)
}

func (s *Server) renderRegistrants(w http.ResponseWriter, r *http.Request, data *registrantsPage) {
	registrants, err := store.ListRegistrants(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to list registrants", err)
		return
	}
	errMsg, okMsg := data.Error, data.Success
	data.PageData = s.pageData(r, "登録者管理")
	data.Error, data.Success = errMsg, okMsg
	data.Registrants = registrants
	s.Templates.Render(w, "registrants.html", data)
}

// registrantsRedirect sends the user back to the page the form was on.
func registrantsRedirect(w http.ResponseWriter, r *http.Request, ok string) {
	if r.FormValue("from") == "dashboard" {
		http.Redirect(w, r, dashboardURL(r, ok), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/registrants?ok="+ok, http.StatusSeeOther)
}

// RegistrantCreateSubmit handles POST /admin/registrants.
func (s *Server) RegistrantCreateSubmit(w http.ResponseWriter, r *http.Request) {
	in := model.RegistrantInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Role:     r.FormValue("role"),
		Notes:    r.FormValue("notes"),
		IsActive: r.FormValue("is_active") != "0",
	}
	in.Normalize()

	err := in.Validate()
	if err == nil {
		_, err = store.CreateRegistrant(r.Context(), s.DB, in)
	}
	if err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) && !errors.Is(err, store.ErrDuplicate) {
			slog.Error("failed to create registrant", "error", err)
		}
		msg := userMessage("登録者の追加", err)
		if r.FormValue("from") == "dashboard" {
			s.renderDashboard(w, r, msg)
			return
		}
		data := &registrantsPage{Form: in}
		data.Error = msg
		s.renderRegistrants(w, r, data)
		return
	}

	slog.Info("registrant created", "user", GetWebClaims(r.Context()).Email, "name", in.Name)
	registrantsRedirect(w, r, "registrant")
}

// RegistrantsBulkSubmit handles POST /admin/registrants/bulk.
func (s *Server) RegistrantsBulkSubmit(w http.ResponseWriter, r *http.Request) {
	text := r.FormValue("text")

	ins, err := model.ParseBulkRegistrants(text)
	var n int
	if err == nil {
		n, err = store.CreateRegistrants(r.Context(), s.DB, ins)
	}
	if err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) && !errors.Is(err, store.ErrDuplicate) {
			slog.Error("failed to bulk create registrants", "error", err)
		}
		data := &registrantsPage{
			Form:     model.RegistrantInput{Role: model.RoleTeacher, IsActive: true},
			BulkText: text,
		}
		data.Error = userMessage("一括登録", err)
		s.renderRegistrants(w, r, data)
		return
	}

	slog.Info("registrants imported", "user", GetWebClaims(r.Context()).Email, "count", n)
	http.Redirect(w, r, "/admin/registrants?ok=registrants", http.StatusSeeOther)
}

func registrantID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// RegistrantUpdateSubmit handles POST /admin/registrants/{id}.
func (s *Server) RegistrantUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := registrantID(r)
	if !ok {
		s.notFound(w, r, "")
		return
	}

	name, email, role, notes := r.FormValue("name"), r.FormValue("email"), r.FormValue("role"), r.FormValue("notes")
	upd := model.RegistrantUpdate{Name: &name, Email: &email, Role: &role, Notes: &notes}
	upd.Normalize()

	err := upd.Validate()
	if err == nil {
		err = store.UpdateRegistrant(r.Context(), s.DB, id, upd)
	}
	if err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) && !errors.Is(err, store.ErrDuplicate) && !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to update registrant", "registrant", id, "error", err)
		}
		data := &registrantsPage{Form: model.RegistrantInput{Role: model.RoleTeacher, IsActive: true}}
		data.Error = userMessage("登録者の更新", err)
		s.renderRegistrants(w, r, data)
		return
	}

	slog.Info("registrant updated", "user", GetWebClaims(r.Context()).Email, "registrant", id)
	http.Redirect(w, r, "/admin/registrants?ok=registrant_saved", http.StatusSeeOther)
}

// RegistrantActiveSubmit handles POST /admin/registrants/{id}/active.
func (s *Server) RegistrantActiveSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := registrantID(r)
	if !ok {
		s.notFound(w, r, "")
		return
	}

	active := r.FormValue("active") == "1"
	if err := store.SetRegistrantActive(r.Context(), s.DB, id, active); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to toggle registrant", "registrant", id, "error", err)
		}
		data := &registrantsPage{Form: model.RegistrantInput{Role: model.RoleTeacher, IsActive: true}}
		data.Error = userMessage("登録者の更新", err)
		s.renderRegistrants(w, r, data)
		return
	}

	slog.Info("registrant active flag changed", "user", GetWebClaims(r.Context()).Email, "registrant", id, "active", active)
	http.Redirect(w, r, "/admin/registrants?ok=registrant_saved", http.StatusSeeOther)
}

// RegistrantDeleteSubmit handles POST /admin/registrants/{id}/delete.
func (s *Server) RegistrantDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := registrantID(r)
	if !ok {
		s.notFound(w, r, "")
		return
	}

	if err := store.DeleteRegistrant(r.Context(), s.DB, id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to delete registrant", "registrant", id, "error", err)
		}
		data := &registrantsPage{Form: model.RegistrantInput{Role: model.RoleTeacher, IsActive: true}}
		data.Error = userMessage("登録者の削除", err)
		s.renderRegistrants(w, r, data)
		return
	}

	slog.Info("registrant deleted", "user", GetWebClaims(r.Context()).Email, "registrant", id)
	http.Redirect(w, r, "/admin/registrants?ok=registrant_gone", http.StatusSeeOther)
}
