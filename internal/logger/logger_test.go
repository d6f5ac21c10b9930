package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture returns a JSON logger at level and a func decoding its last line.
func capture(t *testing.T, level string) (*Logger, *bytes.Buffer, func() map[string]interface{}) {
	t.Helper()
	buf := &bytes.Buffer{}
	l := New(&Config{Level: level, Format: "json", Output: buf})
	return l, buf, func() map[string]interface{} {
		t.Helper()
		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry), buf.String())
		return entry
	}
}

func TestNew_Formats(t *testing.T) {
	for _, cfg := range []*Config{
		nil,
		{Level: "debug", Format: "json"},
		{Level: "warn", Format: "console", Output: io.Discard},
		{Level: "info", TimeFormat: "unixms", Output: io.Discard},
	} {
		assert.NotNil(t, New(cfg))
	}
}

func TestLogger_RequestScopedFields(t *testing.T) {
	l, _, last := capture(t, "info")

	reqLog := l.With().
		Str("request_id", "3f1c").
		Int64("user_id", 42).
		Logger()
	reqLog.Info("application submitted")

	entry := last()
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "application submitted", entry["message"])
	assert.Equal(t, "3f1c", entry["request_id"])
	assert.Equal(t, float64(42), entry["user_id"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_ErrorWith(t *testing.T) {
	l, _, last := capture(t, "error")

	l.ErrorWith("import failed", errors.New("line 7: missing name"), map[string]interface{}{
		"feed": "industries",
		"rows": 500,
	})

	entry := last()
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "line 7: missing name", entry["error"])
	assert.Equal(t, "industries", entry["feed"])
	assert.Equal(t, float64(500), entry["rows"])
}

func TestLogger_ContextRoundTrip(t *testing.T) {
	l, _, last := capture(t, "info")

	ctx := l.With().Str("feed", "cities").Logger().WithContext(context.Background())
	FromContext(ctx).InfoWith("import started", map[string]interface{}{"size": 1024})

	entry := last()
	assert.Equal(t, "cities", entry["feed"])
	assert.Equal(t, float64(1024), entry["size"])
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	l, _, last := capture(t, "info")
	prev := Global()
	SetGlobal(l)
	t.Cleanup(func() { SetGlobal(prev) })

	FromContext(context.Background()).Info("no logger in context")
	assert.Equal(t, "no logger in context", last()["message"])
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		log   func(*Logger)
		want  bool
	}{
		{"debug", func(l *Logger) { l.Debug("statement") }, true},
		{"info", func(l *Logger) { l.Debug("statement") }, false},
		{"info", func(l *Logger) { l.DebugWith("statement", map[string]interface{}{"table": "users"}) }, false},
		{"warn", func(l *Logger) { l.WarnWith("slow batch", nil) }, true},
		{"error", func(l *Logger) { l.Info("request") }, false},
		{"error", func(l *Logger) { l.Errorf("request failed: %d", 500) }, true},
	}

	for _, tt := range tests {
		l, buf, _ := capture(t, tt.level)
		tt.log(l)
		assert.Equal(t, tt.want, buf.Len() > 0, "level %s", tt.level)
	}
}

func TestLogger_LevelIsPerLogger(t *testing.T) {
	debugLog, debugBuf, _ := capture(t, "debug")
	errorLog, errorBuf, _ := capture(t, "error")

	debugLog.Debug("kept")
	errorLog.Info("dropped")

	assert.NotZero(t, debugBuf.Len())
	assert.Zero(t, errorBuf.Len())
	assert.Equal(t, "debug", debugLog.Level())
	assert.Equal(t, "error", errorLog.Level())
}

func TestLogger_DebugWith(t *testing.T) {
	l, _, last := capture(t, "debug")

	l.DebugWith("statement", map[string]interface{}{
		"table": "job_postings",
		"op":    "findById",
	})

	entry := last()
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "job_postings", entry["table"])
	assert.Equal(t, "findById", entry["op"])
}

func TestHTTPEvent(t *testing.T) {
	l, _, last := capture(t, "info")
	l.HTTPEvent().Str("method", "GET").Int("status", 200).Msg("request")

	entry := last()
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, float64(200), entry["status"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", ParseLevel(" DEBUG ").String())
	assert.Equal(t, "warn", ParseLevel("warn").String())
	assert.Equal(t, "info", ParseLevel("verbose").String())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().ErrorWith("ignored", errors.New("boom"), nil)
	})
}

func BenchmarkLogger_DebugWithDisabled(b *testing.B) {
	l := New(&Config{Level: "info", Output: io.Discard})
	fields := map[string]interface{}{"table": "users", "op": "findPage"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.DebugWith("statement", fields)
	}
}

func BenchmarkLogger_RequestLine(b *testing.B) {
	l := New(&Config{Level: "info", Output: io.Discard})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.With().Int("request", i).Logger().HTTPEvent().Str("route", "/users/{id}").Msg("request")
	}
}
