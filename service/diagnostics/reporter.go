package diagnostics

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Diagnostic codes emitted by the runtime.  Codes are stable strings so that
// sinks can route or aggregate them without parsing free text.
const (
	CodeMissingPreceding = "sequence.missingPreceding"
	CodeDoubleSettle     = "sequence.doubleSettle"
	CodeShortQueue       = "sequence.shortQueue"
	CodePendingTick      = "sequence.pendingTick"
	CodeLingering        = "sequence.lingering"
	CodeStoreFailure     = "store.failure"
)

// Reporter receives diagnostic reports.  Implementations must be safe for
// concurrent use and must not panic; Report is best-effort and callers
// ignore any outcome.
type Reporter interface {
	Report(code, contextID string, detail interface{})
}

// Func adapts a plain function to the Reporter interface.
type Func func(code, contextID string, detail interface{})

func (f Func) Report(code, contextID string, detail interface{}) {
	f(code, contextID, detail)
}

var (
	mu       sync.RWMutex
	sink     Reporter
	debugLog bool
)

// SetSink installs the global reporting sink.  Passing nil uninstalls it,
// returning the package to its silent no-op behaviour.
func SetSink(r Reporter) {
	mu.Lock()
	sink = r
	mu.Unlock()
}

// SetDebugLog toggles the local stdlib-log fallback used while no sink is
// installed.  Intended for debug builds and tests.
func SetDebugLog(enabled bool) {
	mu.Lock()
	debugLog = enabled
	mu.Unlock()
}

// Report forwards a diagnostic to the installed sink.  It never panics and
// never blocks the caller on sink failure; when no sink is installed the
// report is dropped (or logged locally when the debug fallback is on).
func Report(code, contextID string, detail interface{}) {
	mu.RLock()
	r := sink
	dbg := debugLog
	mu.RUnlock()

	if r == nil {
		if dbg {
			log.Printf("diagnostics: %s [%s] %v", code, contextID, detail)
		}
		return
	}
	defer func() { _ = recover() }()
	r.Report(code, contextID, detail)
}

// Default returns a Reporter backed by the package-level Report function.
// Components hold this value so tests can swap in a Recorder instead.
func Default() Reporter { return Func(Report) }

// LogSink writes diagnostics through a stdlib logger.
type LogSink struct {
	// Logger defaults to the stdlib standard logger when nil.
	Logger *log.Logger
}

func (s *LogSink) Report(code, contextID string, detail interface{}) {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("diagnostics: %s [%s] %v", code, contextID, detail)
}

// SpanSink records each diagnostic as a short-lived OpenTelemetry span so
// anomalies show up in the same trace output as regular runtime spans.
type SpanSink struct {
	tracer trace.Tracer
}

// NewSpanSink returns a sink emitting through the global tracer provider.
func NewSpanSink() *SpanSink {
	return &SpanSink{tracer: otel.Tracer("github.com/typeflow/fontcache/service/diagnostics")}
}

func (s *SpanSink) Report(code, contextID string, detail interface{}) {
	_, span := s.tracer.Start(context.Background(), code)
	span.SetAttributes(
		attribute.String("context.id", contextID),
		attribute.String("detail", fmt.Sprint(detail)),
	)
	span.End()
}

// Recorder is a Reporter that retains every report; used in tests to assert
// on emitted diagnostics.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Entry is a single recorded diagnostic.
type Entry struct {
	Code      string
	ContextID string
	Detail    interface{}
}

func (r *Recorder) Report(code, contextID string, detail interface{}) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Code: code, ContextID: contextID, Detail: detail})
	r.mu.Unlock()
}

// Entries returns a copy of all recorded diagnostics.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// CountByCode returns how many recorded diagnostics carry the given code.
func (r *Recorder) CountByCode(code string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Code == code {
			n++
		}
	}
	return n
}
