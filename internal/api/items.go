package api

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/lostfound/internal/catalog"
	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/intake"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/objstore"
	"github.com/erazemk/lostfound/internal/store"
)

// ItemsHandler handles lost-item endpoints.
type ItemsHandler struct {
	DB       *sql.DB
	Bucket   *objstore.Bucket
	Location *time.Location
	Now      func() time.Time
}

func (h *ItemsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type returnResponse struct {
	Item            *model.LostItem `json:"item"`
	AlreadyReturned bool            `json:"already_returned"`
}

// List handles GET /api/items?returned=true|false.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	returned := false
	if v := r.URL.Query().Get("returned"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid returned flag")
			return
		}
		returned = b
	}

	items, err := store.ListItems(r.Context(), h.DB, returned)
	if err != nil {
		storeError(w, "list items", err)
		return
	}
	if items == nil {
		items = []model.LostItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, "get item", err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/items (multipart form with an image).
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid or too large multipart form")
		return
	}

	in := model.NewLostItem{
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

	item, err := intake.Register(r.Context(), h.DB, h.Bucket, in, photo)
	if err != nil {
		storeError(w, "create item", err)
		return
	}

	slog.Info("item registered", "user", GetClaims(r.Context()).Email, "item", item.ID, "category", item.Category)
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var upd model.LostItemUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if upd.Empty() {
		jsonError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if err := upd.Validate(); err != nil {
		storeError(w, "update item", err)
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, id, upd); err != nil {
		storeError(w, "update item", err)
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, "update item", err)
		return
	}
	slog.Info("item updated", "user", GetClaims(r.Context()).Email, "item", id)
	jsonResponse(w, http.StatusOK, item)
}

// Return handles POST /api/items/{id}/return.
func (h *ItemsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.markReturned(w, r, id, "api")
}

// ReturnByToken handles POST /api/return/{token}.
func (h *ItemsHandler) ReturnByToken(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItemByQRToken(r.Context(), h.DB, r.PathValue("token"))
	if err != nil {
		storeError(w, "return item", err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	h.markReturned(w, r, item.ID, "qr")
}

// GetByToken handles GET /api/return/{token}.
func (h *ItemsHandler) GetByToken(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItemByQRToken(r.Context(), h.DB, r.PathValue("token"))
	if err != nil {
		storeError(w, "get item", err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

func (h *ItemsHandler) markReturned(w http.ResponseWriter, r *http.Request, id int64, via string) {
	changed, err := store.ReturnItem(r.Context(), h.DB, id, h.now())
	if err != nil {
		storeError(w, "return item", err)
		return
	}
	if changed {
		slog.Info("item returned", "item", id, "via", via)
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, "return item", err)
		return
	}
	jsonResponse(w, http.StatusOK, returnResponse{Item: item, AlreadyReturned: !changed})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := intake.Remove(r.Context(), h.DB, h.Bucket, id); err != nil {
		storeError(w, "delete item", err)
		return
	}

	slog.Info("item deleted", "user", GetClaims(r.Context()).Email, "item", id)
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/items/export.csv?returned=true|false. Without
// the parameter every item is exported.
func (h *ItemsHandler) Export(w http.ResponseWriter, r *http.Request) {
	var (
		items []model.LostItem
		err   error
	)
	if v := r.URL.Query().Get("returned"); v != "" {
		returned, perr := strconv.ParseBool(v)
		if perr != nil {
			jsonError(w, http.StatusBadRequest, "invalid returned flag")
			return
		}
		items, err = store.ListItems(r.Context(), h.DB, returned)
	} else {
		items, err = store.ListAllItems(r.Context(), h.DB)
	}
	if err != nil {
		storeError(w, "export items", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", catalog.ContentDisposition(catalog.ExportFileName(h.now().In(h.Location))))
	if err := catalog.WriteCSV(w, items, h.Location); err != nil {
		slog.Error("failed to write csv export", "error", err)
	}
}
