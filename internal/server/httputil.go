package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/example/portplan/internal/app"
	"github.com/example/portplan/internal/core/tree"
	"github.com/example/portplan/internal/core/validate"
	"github.com/example/portplan/internal/ports/secondary"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// classify maps editor errors to an HTTP status and a stable code. The
// WebSocket protocol reports the same codes.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, secondary.ErrShipNotFound):
		return http.StatusNotFound, "SHIP_NOT_FOUND"
	case errors.Is(err, tree.ErrUnknownRow):
		return http.StatusNotFound, "UNKNOWN_ROW"
	case errors.Is(err, validate.ErrDuplicateName):
		return http.StatusConflict, "DUPLICATE_NAME"
	case errors.Is(err, validate.ErrTypeMismatch):
		return http.StatusBadRequest, "TYPE_MISMATCH"
	case errors.Is(err, validate.ErrEmptyRequired):
		return http.StatusBadRequest, "EMPTY_REQUIRED"
	case errors.Is(err, validate.ErrMalformedDocument):
		return http.StatusBadRequest, "MALFORMED_DOCUMENT"
	case errors.Is(err, tree.ErrNotEditable):
		return http.StatusBadRequest, "NOT_EDITABLE"
	case errors.Is(err, tree.ErrNotPickable):
		return http.StatusBadRequest, "NOT_PICKABLE"
	case errors.Is(err, tree.ErrNotRemovable):
		return http.StatusBadRequest, "NOT_REMOVABLE"
	case errors.Is(err, tree.ErrNoShip):
		return http.StatusBadRequest, "NO_SHIP"
	case errors.Is(err, tree.ErrNoPicker):
		return http.StatusConflict, "NO_PICKER"
	case errors.Is(err, app.ErrEditorClosed):
		return http.StatusServiceUnavailable, "EDITOR_CLOSED"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// editorError writes err using classify. Unclassified errors are logged and
// hidden from the client.
func editorError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("internal error")
		writeError(w, status, code, "internal server error")
		return
	}
	writeError(w, status, code, err.Error())
}
