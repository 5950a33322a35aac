package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Options{Level: "warn", Service: "portal"})

	logger.Info().Msg("dropped")
	logger.Warn().Str("group", "core").Msg("kept")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["message"])
	assert.Equal(t, "portal", lines[0]["service"])
	assert.Equal(t, "core", lines[0]["group"])
	assert.Contains(t, lines[0], "time")
}

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		opts Options
		want zerolog.Level
	}{
		{Options{}, zerolog.InfoLevel},
		{Options{Level: "nonsense"}, zerolog.InfoLevel},
		{Options{Level: "error"}, zerolog.ErrorLevel},
		{Options{Level: "error", Verbose: true}, zerolog.DebugLevel},
		{Options{Level: "trace", Verbose: true}, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		logger := NewWithWriter(&bytes.Buffer{}, tt.opts)
		assert.Equal(t, tt.want, logger.GetLevel(), "%+v", tt.opts)
	}
}

func TestNewWithWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Options{Format: "console"})
	logger.Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "console output should not be JSON: %s", out)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Options{})

	var ctxLogger *zerolog.Logger
	handler := middleware.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = zerolog.Ctx(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/apis?x=1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.NotNil(t, ctxLogger)
	assert.NotEqual(t, zerolog.Disabled, ctxLogger.GetLevel())

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "request", lines[0]["message"])
	assert.Equal(t, "GET", lines[0]["method"])
	assert.Equal(t, "/apis", lines[0]["path"])
	assert.EqualValues(t, http.StatusTeapot, lines[0]["status"])
	assert.NotEmpty(t, lines[0]["request_id"])
}
