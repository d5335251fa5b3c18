package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/portplan/internal/adapters/filesystem"
	"github.com/example/portplan/internal/app"
	"github.com/example/portplan/internal/core/tree"
	"github.com/example/portplan/internal/ports/primary"
)

type testEnv struct {
	dir    string
	editor *app.EditorServiceImpl
	srv    *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	store, err := filesystem.NewShipStore(dir)
	require.NoError(t, err)

	model := app.DefaultShipModel(11)
	editor := app.NewEditorService(store, model, tree.Options{}, zerolog.Nop())
	t.Cleanup(editor.Close)
	fleet := app.NewFleetService(store, model, zerolog.Nop())

	return &testEnv{dir: dir, editor: editor, srv: New(editor, fleet, zerolog.Nop())}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.srv.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeTree(t *testing.T, rec *httptest.ResponseRecorder) treeResponse {
	t.Helper()
	var resp treeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func child(row *primary.TreeRow, label string) *primary.TreeRow {
	for _, c := range row.Children {
		if c.Label == label {
			return c
		}
	}
	return nil
}

func value(v string) map[string]string { return map[string]string{"value": v} }

func TestHealthz(t *testing.T) {
	rec := newTestEnv(t).do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEditingOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/tree", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeTree(t, rec).Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "add_ship", rows[0].Kind)

	rec = env.do(t, http.MethodPost, "/v1/ships", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeTree(t, rec)
	shipID := created.RowID
	require.Len(t, created.Rows, 2)
	ship := created.Rows[0]
	assert.Equal(t, shipID, ship.ID)

	rec = env.do(t, http.MethodPost, "/v1/rows/"+shipID+"/edit", value("Aurora"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Aurora", decodeTree(t, rec).Rows[0].Label)

	length := child(ship, "Length")
	require.NotNil(t, length)
	rec = env.do(t, http.MethodPost, "/v1/rows/"+length.ID+"/edit", value("abc"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TYPE_MISMATCH", errorCode(t, rec))
	rec = env.do(t, http.MethodPost, "/v1/rows/"+length.ID+"/edit", value("120.5"))
	require.Equal(t, http.StatusOK, rec.Code)

	color := child(ship, "Color")
	require.NotNil(t, color)
	rec = env.do(t, http.MethodPost, "/v1/rows/"+color.ID+"/activate", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NO_PICKER", errorCode(t, rec))
	rec = env.do(t, http.MethodPost, "/v1/rows/"+color.ID+"/pick", value("blue"))
	require.Equal(t, http.StatusOK, rec.Code)
	colorRow := child(decodeTree(t, rec).Rows[0], "Color")
	assert.Equal(t, "blue", colorRow.Value)
	assert.Equal(t, "color:#0000ff", colorRow.Icon)

	rec = env.do(t, http.MethodPost, "/v1/rows/"+shipID+"/doors", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	doorID := decodeTree(t, rec).RowID
	assert.True(t, strings.HasPrefix(doorID, "d-"))

	rec = env.do(t, http.MethodPost, "/v1/rows/"+doorID+"/select", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/selection", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sel primary.Selection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	assert.Equal(t, "Aurora", sel.Name)

	rec = env.do(t, http.MethodPost, "/v1/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report primary.SaveReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, []string{"Aurora"}, report.Saved)
	_, err := os.Stat(filepath.Join(env.dir, "Aurora.json"))
	require.NoError(t, err)

	rec = env.do(t, http.MethodGet, "/v1/ships/Aurora/document", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, 120.5, doc["length"])
	assert.Equal(t, 9.0, doc["color"])
	assert.Contains(t, doc, "Door 1")

	rec = env.do(t, http.MethodGet, "/v1/ships", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Name":"Aurora"`)

	rec = env.do(t, http.MethodDelete, "/v1/rows/"+doorID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, child(decodeTree(t, rec).Rows[0], "Door 1"))
}

func TestHTTPErrors(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.editor.AddShip(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown row", http.MethodPost, "/v1/rows/nope/edit", value("x"), http.StatusNotFound, "UNKNOWN_ROW"},
		{"missing value", http.MethodPost, "/v1/rows/add-ship/edit", map[string]string{"valeu": "x"}, http.StatusBadRequest, "INVALID_BODY"},
		{"sentinel not editable", http.MethodPost, "/v1/rows/add-ship/edit", value("x"), http.StatusBadRequest, "NOT_EDITABLE"},
		{"sentinel not removable", http.MethodDelete, "/v1/rows/add-ship", nil, http.StatusBadRequest, "NOT_REMOVABLE"},
		{"unknown document", http.MethodGet, "/v1/ships/Nope/document", nil, http.StatusNotFound, "SHIP_NOT_FOUND"},
		{"unknown stored ship", http.MethodGet, "/v1/ships/Nope", nil, http.StatusNotFound, "SHIP_NOT_FOUND"},
		{"no selection", http.MethodGet, "/v1/selection", nil, http.StatusNotFound, "NO_SELECTION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestOpenAndSchema(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "Aurora.json"), []byte(`{"length": 1, "pattern": 0, "color": 2, "width": 3}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "Broken.json"), []byte(`[]`), 0644))

	rec := env.do(t, http.MethodPost, "/v1/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report primary.LoadReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Loaded)
	assert.Len(t, report.Problems, 1)

	rec = env.do(t, http.MethodGet, "/v1/tree", nil)
	assert.Equal(t, "Aurora", decodeTree(t, rec).Rows[0].Label)

	rec = env.do(t, http.MethodGet, "/v1/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/schema+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"title": "Ship document"`)
}

func TestClassify(t *testing.T) {
	status, code := classify(app.ErrEditorClosed)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "EDITOR_CLOSED", code)

	status, code = classify(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)
}
