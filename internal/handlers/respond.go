package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Akash-rengaraj/sanjana-creations/internal/checkout"
	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	"github.com/Akash-rengaraj/sanjana-creations/internal/store"
)

const maxJSONBody = 1 << 20

type messageResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps a service error onto the JSON error envelope. entity names
// the resource in the 404 message.
func writeError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var verr *models.ValidationError
	switch {
	case store.IsNotFound(err):
		slog.Info("Resource not found", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusNotFound, entity+" not found")
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Validation failed", Fields: verr.Fields})
	case errors.Is(err, checkout.ErrWrongStep):
		writeMessage(w, http.StatusConflict, err.Error())
	default:
		var ioErr *store.IOError
		if errors.As(err, &ioErr) {
			slog.Error("Store I/O failure", "collection", ioErr.Collection, "op", ioErr.Op, "error", ioErr.Err)
		} else {
			slog.Error("Request failed", "path", r.URL.Path, "error", err)
		}
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a bounded JSON body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Warn("Invalid JSON body", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// pathID parses the {id} wildcard as a numeric id. A non-numeric id cannot
// match any record, so it is reported as not found.
func pathID(w http.ResponseWriter, r *http.Request, entity string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusNotFound, entity+" not found")
		return 0, false
	}
	return id, true
}
