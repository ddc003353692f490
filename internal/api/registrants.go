package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// RegistrantsHandler handles registrant allow-list endpoints.
type RegistrantsHandler struct {
	DB *sql.DB
}

// List handles GET /api/registrants.
func (h *RegistrantsHandler) List(w http.ResponseWriter, r *http.Request) {
	registrants, err := store.ListRegistrants(r.Context(), h.DB)
	if err != nil {
		storeError(w, "list registrants", err)
		return
	}
	if registrants == nil {
		registrants = []model.Registrant{}
	}
	jsonResponse(w, http.StatusOK, registrants)
}

// Create handles POST /api/registrants.
func (h *RegistrantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := model.RegistrantInput{IsActive: true}
	if err := decodeJSON(w, r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		storeError(w, "create registrant", err)
		return
	}

	reg, err := store.CreateRegistrant(r.Context(), h.DB, in)
	if err != nil {
		storeError(w, "create registrant", err)
		return
	}

	slog.Info("registrant created", "user", GetClaims(r.Context()).Email, "name", reg.Name)
	jsonResponse(w, http.StatusCreated, reg)
}

// Bulk handles POST /api/registrants/bulk with {"text": "..."}.
func (h *RegistrantsHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ins, err := model.ParseBulkRegistrants(req.Text)
	if err != nil {
		storeError(w, "bulk registrants", err)
		return
	}
	n, err := store.CreateRegistrants(r.Context(), h.DB, ins)
	if err != nil {
		storeError(w, "bulk registrants", err)
		return
	}

	slog.Info("registrants imported", "user", GetClaims(r.Context()).Email, "count", n)
	jsonResponse(w, http.StatusCreated, map[string]int{"created": n})
}

// Update handles PUT /api/registrants/{id}.
func (h *RegistrantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var upd model.RegistrantUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if upd.Empty() {
		jsonError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	upd.Normalize()
	if err := upd.Validate(); err != nil {
		storeError(w, "update registrant", err)
		return
	}

	if err := store.UpdateRegistrant(r.Context(), h.DB, id, upd); err != nil {
		storeError(w, "update registrant", err)
		return
	}

	reg, err := store.GetRegistrant(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, "update registrant", err)
		return
	}
	slog.Info("registrant updated", "user", GetClaims(r.Context()).Email, "registrant", id)
	jsonResponse(w, http.StatusOK, reg)
}

// Delete handles DELETE /api/registrants/{id}.
func (h *RegistrantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := store.DeleteRegistrant(r.Context(), h.DB, id); err != nil {
		storeError(w, "delete registrant", err)
		return
	}

	slog.Info("registrant deleted", "user", GetClaims(r.Context()).Email, "registrant", id)
	w.WriteHeader(http.StatusNoContent)
}
