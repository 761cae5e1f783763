package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainWriter is a ResponseWriter without http.Flusher
type plainWriter struct {
	header http.Header
}

func (w *plainWriter) Header() http.Header         { return w.header }
func (w *plainWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *plainWriter) WriteHeader(int)             {}

func TestNewSSEWriter_RequiresFlusher(t *testing.T) {
	_, err := NewSSEWriter(&plainWriter{header: http.Header{}})
	assert.EqualError(t, err, "streaming not supported")
}

func TestSSEWriter_WriteEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent("progress", map[string]string{"message": "hi"}))
	sse.WriteError("boom")

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t,
		"event: progress\ndata: {\"message\":\"hi\"}\n\n"+
			"event: error\ndata: {\"error\":\"boom\"}\n\n",
		rec.Body.String())
}

func TestProgressWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	p := newProgressWriter(sse)
	n, err := p.Write([]byte("Step 1/6: Reading input...\nStep 2/6: Extr"))
	require.NoError(t, err)
	assert.Equal(t, 41, n)
	_, err = p.Write([]byte("acting...\n\n"))
	require.NoError(t, err)
	_, err = p.Write([]byte("done"))
	require.NoError(t, err)
	assert.NotContains(t, rec.Body.String(), "done")
	p.Flush()

	assert.Equal(t,
		"event: progress\ndata: {\"message\":\"Step 1/6: Reading input...\"}\n\n"+
			"event: progress\ndata: {\"message\":\"Step 2/6: Extracting...\"}\n\n"+
			"event: progress\ndata: {\"message\":\"done\"}\n\n",
		rec.Body.String())
}
