package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo}, // Default for unknown
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestInitForCLI(t *testing.T) {
	var buf bytes.Buffer

	InitForCLI(LevelInfo, &buf)

	if defaultLogger == nil {
		t.Error("Expected defaultLogger to be set after InitForCLI")
	}

	Info("test-subsystem", "test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Error("Expected log message to appear in CLI output")
	}

	if !strings.Contains(output, "test-subsystem") {
		t.Error("Expected subsystem to appear in CLI output")
	}
}

func TestCLILevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	InitForCLI(LevelInfo, &buf)

	Debug("test", "debug message")
	Info("test", "info message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("Debug message should be filtered out at INFO level")
	}

	if !strings.Contains(output, "info message") {
		t.Error("Info message should appear at INFO level")
	}
}

func TestInitJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, FormatJSON, &buf)

	Error("Executor", errors.New("boom"), "load failed for %s", "db")

	output := buf.String()
	assert.Contains(t, output, `"msg":"load failed for db"`)
	assert.Contains(t, output, `"subsystem":"Executor"`)
	assert.Contains(t, output, `"error":"boom"`)
}

func TestDefaultSink_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, FormatJSON, &buf)

	DefaultSink().Emit(Record{
		Level:   LevelInfo,
		Source:  "Executor",
		Message: "group completed",
		Fields:  Fields{"succeeded": 2, "failed": 1},
	})
	DefaultSink().Emit(Record{Level: LevelDebug, Source: "Executor", Message: "hidden"})

	output := buf.String()
	assert.Contains(t, output, `"succeeded":2`)
	assert.Contains(t, output, `"failed":1`)
	assert.Contains(t, output, `"subsystem":"Executor"`)
	assert.NotContains(t, output, "hidden")
}

func TestWithFields(t *testing.T) {
	rec := NewRecorder()
	sink := WithFields(rec, Fields{"bootID": "abc", "group": 0})

	sink.Emit(Record{Message: "one", Fields: Fields{"group": 2}})

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "abc", records[0].Fields["bootID"])
	assert.Equal(t, 2, records[0].Fields["group"], "record fields take precedence")
}

func TestRecorder_Concurrent(t *testing.T) {
	rec := NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Emit(Record{Message: "tick"})
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Records(), 50)
	assert.Len(t, rec.Find("tick"), 50)
	assert.Empty(t, rec.Find("tock"))
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard.Emit(Record{Message: "dropped"})
	})
}
