package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/nxrag/internal/artifacts"
	"github.com/jonathan/nxrag/internal/db"
	"github.com/jonathan/nxrag/internal/llm"
	"github.com/jonathan/nxrag/internal/pipeline"
)

const widgetScript = `# NXOpen Python (simulated export)
# Part: WidgetHousing_v1

import NXOpen

def main():
    theSession = NXOpen.Session.GetSession()
    workPart = theSession.Parts.Work
    part_units = NXOpen.Part.Units.Millimeters
    mat_note = "Material: 6061-T6 aluminum"
    tol_note = "Mounting interface tolerance: ±0.05 mm"
`

const bracketExemplar = `# Exemplar: vibration bracket

Material: 6061-T6 aluminum.
Mounting interface tolerance: ±0.05 mm.
Use blue threadlocker on M5 socket head cap screws and torque to 4.5 N·m.
Apply anti-seize on aluminum interfaces.
`

func testBase(t *testing.T) pipeline.Options {
	t.Helper()
	root := filepath.Join(t.TempDir(), "corpus")
	files := map[string]string{
		"exemplars/bracket.md": bracketExemplar,
		"style_rules/style.md": "# Style\n\nUse SI units.\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return pipeline.Options{
		CorpusRoot:     root,
		RepoRoot:       filepath.Dir(root),
		MaxExemplars:   2,
		MaxCharsPerDoc: 2000,
		OutRoot:        filepath.Join(t.TempDir(), "runs"),
		LLM:            *llm.DefaultConfig(),
		Client:         llm.NewStubClient(""),
	}
}

// fakeRuns is an in-memory RunReader
type fakeRuns struct {
	mu        sync.Mutex
	runs      map[uuid.UUID]*db.Run
	json      map[string][]byte
	text      map[string]string
	deleted   []uuid.UUID
	lastLimit int
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{
		runs: map[uuid.UUID]*db.Run{},
		json: map[string][]byte{},
		text: map[string]string{},
	}
}

func (f *fakeRuns) add(run db.Run) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[run.ID] = &run
	return run.ID
}

func key(id uuid.UUID, step string) string { return id.String() + "/" + step }

func (f *fakeRuns) ListRuns(_ context.Context, limit int) ([]db.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	runs := make([]db.Run, 0, len(f.runs))
	for _, run := range f.runs {
		runs = append(runs, *run)
	}
	return runs, nil
}

func (f *fakeRuns) GetRun(_ context.Context, id uuid.UUID) (*db.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[id], nil
}

func (f *fakeRuns) ListArtifacts(_ context.Context, id uuid.UUID) ([]db.ArtifactSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.ArtifactSummary
	for k := range f.json {
		if strings.HasPrefix(k, id.String()+"/") {
			out = append(out, db.ArtifactSummary{Step: strings.TrimPrefix(k, id.String()+"/"), HasJSON: true})
		}
	}
	for k := range f.text {
		if strings.HasPrefix(k, id.String()+"/") {
			out = append(out, db.ArtifactSummary{Step: strings.TrimPrefix(k, id.String()+"/"), HasText: true})
		}
	}
	return out, nil
}

func (f *fakeRuns) GetArtifact(_ context.Context, id uuid.UUID, step string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.json[key(id, step)], nil
}

func (f *fakeRuns) GetTextArtifact(_ context.Context, id uuid.UUID, step string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text[key(id, step)], nil
}

func (f *fakeRuns) DeleteRun(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.runs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func runRequestBody(t *testing.T, req RunRequest) string {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return string(data)
}

func TestHealth(t *testing.T) {
	s := New(Config{Base: testBase(t)})
	rec := do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["persistence"])
}

func TestCORSPreflight(t *testing.T) {
	s := New(Config{Base: testBase(t)})
	rec := do(t, s, http.MethodOptions, "/runs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCreateRun(t *testing.T) {
	base := testBase(t)
	s := New(Config{Base: base})

	rec := do(t, s, http.MethodPost, "/runs", runRequestBody(t, RunRequest{
		FileName: "widget.py",
		Text:     widgetScript,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "WidgetHousing_v1", resp.PartName)
	assert.Equal(t, 1, resp.Attempts)
	assert.False(t, resp.RetryUsed)
	assert.True(t, resp.Validation.OK, "missing: %v", resp.Validation.Missing)
	assert.NotEmpty(t, resp.Completion)
	assert.Nil(t, resp.DBRunID)
	assert.Contains(t, resp.Artifacts, artifacts.OutputFile)
	assert.FileExists(t, filepath.Join(filepath.FromSlash(resp.RunDir), artifacts.OutputFile))
	assert.True(t, strings.HasPrefix(filepath.FromSlash(resp.RunDir), base.OutRoot))
}

func TestCreateRun_ValidationErrors(t *testing.T) {
	s := New(Config{Base: testBase(t)})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "invalid json", body: "{", wantErr: "body"},
		{name: "missing text", body: `{"file_name":"widget.py"}`, wantErr: "text"},
		{name: "blank text", body: `{"text":"   "}`, wantErr: "text"},
		{name: "bad source type", body: `{"text":"x","source_type":"step_file"}`, wantErr: "source_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/runs", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.wantErr)
		})
	}
}

func TestCreateRun_GenerationFailure(t *testing.T) {
	base := testBase(t)
	base.Client = llm.NewScriptedClient("")
	s := New(Config{Base: base})

	rec := do(t, s, http.MethodPost, "/runs", runRequestBody(t, RunRequest{Text: widgetScript}))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUploadName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: defaultUploadName},
		{in: "bracket.py", want: "bracket.py"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: "nested/part.md", want: "part.md"},
	}
	for _, tt := range tests {
		req := RunRequest{FileName: tt.in}
		assert.Equal(t, tt.want, req.uploadName(), "input %q", tt.in)
	}
}

func TestCreateRunStream(t *testing.T) {
	s := New(Config{Base: testBase(t)})

	rec := do(t, s, http.MethodPost, "/runs/stream", runRequestBody(t, RunRequest{
		FileName: "widget.py",
		Text:     widgetScript,
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: progress\n")
	assert.Contains(t, body, "Step 1/6: Reading input...")
	assert.Contains(t, body, "event: complete\n")
	assert.NotContains(t, body, "event: error\n")
	assert.Less(t, strings.Index(body, "Step 1/6"), strings.Index(body, "event: complete"))
}

func TestCreateRunStream_ValidationIsJSON(t *testing.T) {
	s := New(Config{Base: testBase(t)})
	rec := do(t, s, http.MethodPost, "/runs/stream", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRuns_PersistenceDisabled(t *testing.T) {
	s := New(Config{Base: testBase(t)})
	id := uuid.New().String()

	for _, target := range []string{"/runs", "/runs/" + id, "/runs/" + id + "/artifacts", "/runs/" + id + "/artifacts/output"} {
		rec := do(t, s, http.MethodGet, target, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
	rec := do(t, s, http.MethodDelete, "/runs/"+id, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListRuns(t *testing.T) {
	runs := newFakeRuns()
	runs.add(db.Run{ID: uuid.New(), Status: db.RunStatusCompleted, CreatedAt: time.Now()})
	runs.add(db.Run{ID: uuid.New(), Status: db.RunStatusFailed, CreatedAt: time.Now()})
	s := New(Config{Base: testBase(t), Runs: runs})

	rec := do(t, s, http.MethodGet, "/runs?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Runs  []db.Run `json:"runs"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Runs, 2)
	assert.Equal(t, 5, runs.lastLimit)

	rec = do(t, s, http.MethodGet, "/runs?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRun(t *testing.T) {
	runs := newFakeRuns()
	id := runs.add(db.Run{ID: uuid.New(), InputPath: "widget.py", Status: db.RunStatusCompleted})
	s := New(Config{Base: testBase(t), Runs: runs})

	rec := do(t, s, http.MethodGet, "/runs/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var run db.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "widget.py", run.InputPath)

	rec = do(t, s, http.MethodGet, "/runs/"+uuid.New().String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeError(t, rec), "run not found")

	rec = do(t, s, http.MethodGet, "/runs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRun(t *testing.T) {
	runs := newFakeRuns()
	id := runs.add(db.Run{ID: uuid.New()})
	s := New(Config{Base: testBase(t), Runs: runs})

	rec := do(t, s, http.MethodDelete, "/runs/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, runs.deleted)

	rec = do(t, s, http.MethodDelete, "/runs/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, runs.deleted, 1)
}

func TestRunArtifacts(t *testing.T) {
	runs := newFakeRuns()
	id := runs.add(db.Run{ID: uuid.New()})
	runs.json[key(id, "generation")] = []byte(`{"attempts":1}`)
	runs.text[key(id, "output")] = "## Overview\nWidget housing.\n"
	s := New(Config{Base: testBase(t), Runs: runs})

	rec := do(t, s, http.MethodGet, "/runs/"+id.String()+"/artifacts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Artifacts []db.ArtifactSummary `json:"artifacts"`
		Count     int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	rec = do(t, s, http.MethodGet, "/runs/"+id.String()+"/artifacts/generation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"attempts":1}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/runs/"+id.String()+"/artifacts/output", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, "## Overview\nWidget housing.\n", rec.Body.String())

	rec = do(t, s, http.MethodGet, "/runs/"+id.String()+"/artifacts/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/runs/"+uuid.New().String()+"/artifacts", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
