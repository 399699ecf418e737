// Package events emits structured debug events at probe decision points.
package events

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Sink receives structured debug events. Implementations must be safe for
// concurrent use. Emitting to a nil Sink is a no-op.
type Sink interface {
	Emit(event string, fields map[string]interface{})
}

// Emit sends an event to sink, tolerating a nil sink.
func Emit(sink Sink, event string, fields map[string]interface{}) {
	if sink == nil {
		return
	}
	sink.Emit(event, fields)
}

// JSONLSink serializes events as JSON lines, one object per event.
// Each line carries "ts" (unix seconds) and "event" plus the given fields.
type JSONLSink struct {
	mu   sync.Mutex
	w    io.Writer
	file *os.File
}

// NewJSONLSink creates a sink writing to w.
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{w: w}
}

// NewFileSink creates a sink appending JSON lines to the given path.
func NewFileSink(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug file: %w", err)
	}
	return &JSONLSink{w: f, file: f}, nil
}

// Emit writes one event line. Serialization problems are swallowed: debug
// logging must never fail the probe run.
func (s *JSONLSink) Emit(event string, fields map[string]interface{}) {
	payload := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		payload[k] = v
	}
	payload["ts"] = float64(time.Now().UnixNano()) / 1e9
	payload["event"] = event

	line, err := json.Marshal(payload)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Write(append(line, '\n'))
}

// Close closes the underlying file when the sink owns one.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}
