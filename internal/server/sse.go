package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/roadmap-generator/internal/roadmap"
	"github.com/jonathan/roadmap-generator/internal/types"
)

// SSE event names
const (
	eventProgress = "progress"
	eventComplete = "complete"
	eventError    = "error"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer. CORS headers are left to the middleware.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteProgress sends a progress event for a generation stage
func (s *SSEWriter) WriteProgress(p roadmap.Progress) error {
	return s.WriteEvent(eventProgress, p)
}

// WriteError sends an error event shaped like an error response body
func (s *SSEWriter) WriteError(err error) {
	s.WriteEvent(eventError, errorBody(err)) //nolint:errcheck
}

// WriteComplete sends the finished roadmap
func (s *SSEWriter) WriteComplete(result *types.GenerationResult) {
	s.WriteEvent(eventComplete, result) //nolint:errcheck
}
