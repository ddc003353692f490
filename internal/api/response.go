package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// storeError maps an error from the model or store layer to a response.
// Unexpected errors are logged and reported as 500.
func storeError(w http.ResponseWriter, op string, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicate):
		jsonError(w, http.StatusConflict, "already exists")
	default:
		slog.Error("request failed", "op", op, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(target)
}
