package logging

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Fields is the structured payload attached to a Record.
type Fields map[string]interface{}

// Record is one structured log entry handed to a Sink.
type Record struct {
	Timestamp time.Time
	Level     LogLevel
	Source    string
	Message   string
	Err       error
	Fields    Fields
}

// Sink accepts structured records. Components that must not depend on the
// package-level logger take a Sink instead.
type Sink interface {
	Emit(rec Record)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(rec Record)

// Emit calls f(rec).
func (f SinkFunc) Emit(rec Record) { f(rec) }

// Discard drops every record.
var Discard Sink = SinkFunc(func(Record) {})

type defaultSink struct{}

// DefaultSink returns a Sink writing through the logger configured by Init.
func DefaultSink() Sink {
	return defaultSink{}
}

func (defaultSink) Emit(rec Record) {
	if !enabled(rec.Level) {
		return
	}
	logInternal(rec.Level, rec.Source, rec.Err, fieldAttrs(rec.Fields), "%s", rec.Message)
}

// fieldAttrs converts fields into slog attributes in key order so output is stable.
func fieldAttrs(fields Fields) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

// WithFields returns a Sink that merges extra into every record's fields
// before forwarding to next. Fields already present on a record win.
func WithFields(next Sink, extra Fields) Sink {
	return SinkFunc(func(rec Record) {
		merged := make(Fields, len(extra)+len(rec.Fields))
		for k, v := range extra {
			merged[k] = v
		}
		for k, v := range rec.Fields {
			merged[k] = v
		}
		rec.Fields = merged
		next.Emit(rec)
	})
}

// Recorder is an in-memory Sink. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit stores rec.
func (r *Recorder) Emit(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Find returns the recorded entries with the given message.
func (r *Recorder) Find(message string) []Record {
	var out []Record
	for _, rec := range r.Records() {
		if rec.Message == message {
			out = append(out, rec)
		}
	}
	return out
}
