package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/portplan/internal/ports/primary"
)

// valueRequest is the body of edit and pick requests.
type valueRequest struct {
	Value *string `json:"value"`
}

// treeResponse is returned by every endpoint that changes the tree.
type treeResponse struct {
	RowID string             `json:"row_id,omitempty"`
	Rows  []*primary.TreeRow `json:"rows"`
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	rows, err := s.editor.Tree(r.Context())
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{Rows: rows})
}

// respondTree answers a mutation with the current tree.
func (s *Server) respondTree(w http.ResponseWriter, r *http.Request, status int, rowID string) {
	rows, err := s.editor.Tree(r.Context())
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	writeJSON(w, status, treeResponse{RowID: rowID, Rows: rows})
}

func (s *Server) open(w http.ResponseWriter, r *http.Request) {
	report, err := s.editor.Open(r.Context())
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	report, err := s.editor.Save(r.Context())
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) getSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := s.editor.Selection(r.Context())
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	if sel == nil {
		writeError(w, http.StatusNotFound, "NO_SELECTION", "no ship is selected")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	data, err := s.fleet.Schema(r.Context())
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(data)
}

func (s *Server) listShips(w http.ResponseWriter, r *http.Request) {
	listing, err := s.fleet.ListShips(r.Context())
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) getShip(w http.ResponseWriter, r *http.Request) {
	ship, err := s.fleet.GetShip(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ship)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	data, err := s.editor.Document(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) addShip(w http.ResponseWriter, r *http.Request) {
	id, err := s.editor.AddShip(r.Context())
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	s.respondTree(w, r, http.StatusCreated, id)
}

func (s *Server) addDoor(w http.ResponseWriter, r *http.Request) {
	id, err := s.editor.AddDoor(r.Context(), chi.URLParam(r, "rowID"))
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	s.respondTree(w, r, http.StatusCreated, id)
}

// readValue decodes a value request. A missing value is rejected so a typo
// in the body does not clear a field.
func readValue(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req valueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body: "+err.Error())
		return "", false
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "value is required")
		return "", false
	}
	return *req.Value, true
}

// editRow writes text into a row. A rejected value still changes the tree
// (the field is cleared and recolored), so the error is the whole answer
// and clients refetch or follow the WebSocket stream.
func (s *Server) editRow(w http.ResponseWriter, r *http.Request) {
	value, ok := readValue(w, r)
	if !ok {
		return
	}
	rowID := chi.URLParam(r, "rowID")
	if err := s.editor.Edit(r.Context(), rowID, value); err != nil {
		editorError(w, s.logger, err)
		return
	}
	s.respondTree(w, r, http.StatusOK, rowID)
}

func (s *Server) pickRow(w http.ResponseWriter, r *http.Request) {
	value, ok := readValue(w, r)
	if !ok {
		return
	}
	rowID := chi.URLParam(r, "rowID")
	if err := s.editor.Pick(r.Context(), rowID, value); err != nil {
		editorError(w, s.logger, err)
		return
	}
	s.respondTree(w, r, http.StatusOK, rowID)
}

func (s *Server) activateRow(w http.ResponseWriter, r *http.Request) {
	rowID := chi.URLParam(r, "rowID")
	if err := s.editor.Activate(r.Context(), rowID); err != nil {
		editorError(w, s.logger, err)
		return
	}
	s.respondTree(w, r, http.StatusOK, rowID)
}

func (s *Server) selectRow(w http.ResponseWriter, r *http.Request) {
	sel, err := s.editor.Select(r.Context(), chi.URLParam(r, "rowID"))
	if err != nil {
		editorError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (s *Server) removeRow(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Remove(r.Context(), chi.URLParam(r, "rowID")); err != nil {
		editorError(w, s.logger, err)
		return
	}
	s.respondTree(w, r, http.StatusOK, "")
}
