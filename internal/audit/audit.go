package audit

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"
)

// Event is the canonical audit record. Identifier is always stored redacted;
// the secondary factor is never stored in any field.
type Event struct {
	EventID    string            `json:"event_id"`
	Timestamp  time.Time         `json:"timestamp"`
	EventType  string            `json:"event_type"`
	Kind       string            `json:"kind,omitempty"`
	Identifier string            `json:"identifier,omitempty"`
	IP         string            `json:"ip,omitempty"`
	Success    bool              `json:"success"`
	Reason     string            `json:"reason,omitempty"`
	Error      string            `json:"error,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// redactVisibleSuffix is how many trailing characters of an identifier stay
// readable after redaction; enough to correlate, not enough to replay.
const redactVisibleSuffix = 4

// Redact masks an identifier for storage: every digit and letter except the
// last four characters becomes '*', separators are kept, and the result is
// capped at 16 characters.
func Redact(identifier string) string {
	runes := []rune(identifier)
	if len(runes) > 16 {
		runes = runes[len(runes)-16:]
	}

	var b strings.Builder
	b.Grow(len(runes))
	cut := len(runes) - redactVisibleSuffix
	for i, r := range runes {
		if i >= cut {
			b.WriteRune(r)
			continue
		}
		if r == '-' || r == ' ' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('*')
	}
	return b.String()
}

// Sink receives emitted audit events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes audit events into a buffered channel.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
