// Package logging builds the zerolog logger shared by all commands and the
// request logging middleware of the HTTP servers.
package logging

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/docviewer/internal/metrics"
)

// Options controls logger construction.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // json or console
	Service string
	Verbose bool
}

// New creates a structured logger writing to stderr. Stdout stays free for
// command output and the MCP stdio transport.
func New(opts Options) zerolog.Logger {
	return NewWithWriter(os.Stderr, opts)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, opts Options) zerolog.Logger {
	if opts.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	ctx := zerolog.New(w).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	if opts.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	return logger.Level(level)
}

// RequestLogger returns a middleware that logs each request and stores a
// request-scoped logger in the request context.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := middleware.GetReqID(r.Context())
			reqLogger := logger.With().Str("request_id", reqID).Logger()
			r = r.WithContext(reqLogger.WithContext(r.Context()))

			ww := &metrics.StatusWriter{ResponseWriter: w, Status: http.StatusOK}
			next.ServeHTTP(ww, r)

			reqLogger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
