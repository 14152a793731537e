// Package debuglog is the development-only diagnostic sink. Entries are
// structured {ts, event, details} records written through zap and, when a
// collector endpoint is configured, posted to it as JSON lines. Everything
// here is best-effort: a failing collector must never fail a request.
package debuglog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger records diagnostic events. The zero value and a nil *Logger are
// both safe no-ops, so callers don't need to guard for production builds.
type Logger struct {
	zl       *zap.Logger
	sinkURL  string
	client   *http.Client
	disabled bool
}

type entry struct {
	TS      string         `json:"ts"`
	Event   string         `json:"event"`
	Details map[string]any `json:"details"`
}

// New builds a Logger. When enabled is false all methods are no-ops.
// sinkURL may be empty, in which case entries only go to stderr via zap.
func New(enabled bool, sinkURL string) *Logger {
	if !enabled {
		return &Logger{disabled: true}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zl, err := cfg.Build()
	if err != nil {
		zl = zap.NewNop()
	}

	return &Logger{
		zl:      zl,
		sinkURL: sinkURL,
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

// Enabled reports whether events are being recorded.
func (l *Logger) Enabled() bool {
	return l != nil && !l.disabled
}

// Event records one diagnostic event. Sensitive values in details must be
// redacted by the caller (see Redact); Event does not inspect them.
func (l *Logger) Event(event string, details map[string]any) {
	if !l.Enabled() {
		return
	}

	e := entry{
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Event:   event,
		Details: details,
	}

	if l.zl != nil {
		l.zl.Debug(event, zap.Any("details", details))
	}

	if l.sinkURL == "" {
		return
	}

	// Fire-and-forget to the local collector; failures are swallowed.
	go func() {
		payload, err := json.Marshal(e)
		if err != nil {
			payload, _ = json.Marshal(entry{TS: e.TS, Event: e.Event,
				Details: map[string]any{"error": "could not serialize details"}})
		}
		resp, err := l.client.Post(l.sinkURL, "application/json", bytes.NewReader(payload))
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
}

// Sync flushes buffered log output. Safe on a no-op logger.
func (l *Logger) Sync() {
	if l.Enabled() && l.zl != nil {
		_ = l.zl.Sync()
	}
}
