// [FILE] internal/util/sse/sse.go
// Helper util untuk menulis SSE secara aman.

package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

type Flusher interface {
	Flush()
}

// Set header SSE + no-cache
func PrepareSSE(w http.ResponseWriter) Flusher {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Nginx: disable buffering
	flusher, _ := w.(http.Flusher)
	return flusher
}

func WriteEvent(w http.ResponseWriter, flusher Flusher, event string, v any) error {
	var payload string
	switch data := v.(type) {
	case string:
		payload = data
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}

	if flusher != nil {
		flusher.Flush()
	}
	return nil
}

// Stream membungkus writer agar event dari banyak goroutine tidak saling tumpuk.
type Stream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher Flusher
}

func NewStream(w http.ResponseWriter) *Stream {
	return &Stream{w: w, flusher: PrepareSSE(w)}
}

func (s *Stream) Send(event string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteEvent(s.w, s.flusher, event, v)
}
