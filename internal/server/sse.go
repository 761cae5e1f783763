package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}

// WriteComplete sends a completion event carrying the run summary
func (s *SSEWriter) WriteComplete(resp RunResponse) {
	s.WriteEvent("complete", resp) //nolint:errcheck
}

// progressWriter turns pipeline progress output into one "progress" event per line
type progressWriter struct {
	mu  sync.Mutex
	sse *SSEWriter
	buf bytes.Buffer
}

func newProgressWriter(sse *SSEWriter) *progressWriter {
	return &progressWriter{sse: sse}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Write(b)
	for {
		line, err := p.buf.ReadString('\n')
		if err != nil {
			// partial line; keep it for the next write
			p.buf.Reset()
			p.buf.WriteString(line)
			return len(b), nil
		}
		p.emit(line)
	}
}

// Flush sends any trailing partial line
func (p *progressWriter) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf.Len() > 0 {
		p.emit(p.buf.String())
		p.buf.Reset()
	}
}

func (p *progressWriter) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	p.sse.WriteEvent("progress", map[string]string{"message": line}) //nolint:errcheck
}
