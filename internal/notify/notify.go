// Package notify defines the outbound alert channel used by the health
// tracker and conflict resolver. Delivery to the device notification system
// is out of scope; this package ships a zerolog-backed sink for headless use
// and a memory sink for tests.
package notify

import (
	"sync"

	"github.com/pocketplan/pocketsync/internal/logger"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is a structured alert: a requireManual conflict, a permanently
// failed operation, or a health warning.
type Event struct {
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Context  map[string]any `json:"context,omitempty"`
}

// Sink receives events. Implementations must not block the caller.
type Sink interface {
	Notify(event Event)
}

type logSink struct {
	logger *logger.Logger
}

// NewLogSink returns a Sink that writes events to the structured log.
func NewLogSink(log *logger.Logger) Sink {
	return &logSink{logger: log}
}

func (s *logSink) Notify(event Event) {
	entry := s.logger.Info()
	switch event.Severity {
	case SeverityWarning:
		entry = s.logger.Warn()
	case SeverityCritical:
		entry = s.logger.Error()
	}

	entry.Str("severity", string(event.Severity)).
		Fields(event.Context).
		Msg(event.Message)
}

// MemorySink collects events for inspection in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Notify(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns a copy of everything notified so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
