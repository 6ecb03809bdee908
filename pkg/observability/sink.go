package observability

import (
	"log/slog"
	"sync"
)

// Sink receives grouped diagnostics. Implementations must not influence
// the pipeline; a no-op is always valid.
type Sink interface {
	// GroupCollapsed opens a nested scope. args are slog-style key/value pairs.
	GroupCollapsed(label string, args ...any)
	// Log records a message inside the innermost open scope.
	Log(msg string, args ...any)
	// GroupEnd closes the innermost scope.
	GroupEnd()
}

// Forker is implemented by sinks that keep scope state. Fork returns a sink
// writing to the same destination with its own, empty scope stack, so
// concurrent dispatch cycles do not close each other's groups.
type Forker interface {
	Fork() Sink
}

// ForCycle returns the sink a single dispatch cycle should report to.
func ForCycle(s Sink) Sink {
	if f, ok := s.(Forker); ok {
		return f.Fork()
	}
	return s
}

// Nop discards everything.
var Nop Sink = nopSink{}

type nopSink struct{}

func (nopSink) GroupCollapsed(string, ...any) {}
func (nopSink) Log(string, ...any)            {}
func (nopSink) GroupEnd()                     {}

// SlogSink writes diagnostics as Debug records. Each open scope adds its label
// and attributes to every record logged inside it. The scope stack belongs to
// the SlogSink value; callers running concurrently take a Fork each.
type SlogSink struct {
	mu    sync.Mutex
	base  *slog.Logger
	stack []*slog.Logger
}

// NewSlogSink wraps logger. A nil logger discards.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SlogSink{base: logger}
}

// Fork returns a sink over the same logger with no open scopes.
func (s *SlogSink) Fork() Sink {
	return &SlogSink{base: s.base}
}

func (s *SlogSink) current() *slog.Logger {
	if n := len(s.stack); n > 0 {
		return s.stack[n-1]
	}
	return s.base
}

func (s *SlogSink) GroupCollapsed(label string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scoped := s.current().With("scope", label).With(args...)
	scoped.Debug(label)
	s.stack = append(s.stack, scoped)
}

func (s *SlogSink) Log(msg string, args ...any) {
	s.mu.Lock()
	l := s.current()
	s.mu.Unlock()
	l.Debug(msg, args...)
}

func (s *SlogSink) GroupEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
}
