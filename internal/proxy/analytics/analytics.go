// Package analytics records proxied request metadata on a best-effort,
// fire-and-forget basis. Recording never blocks the response path and a
// failing recorder never fails a request.
package analytics

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/miragebrowse/mirage/internal/logging"
)

// Record is one proxied request observation. Append-only; nothing in the
// proxy core reads these back.
type Record struct {
	ID              string
	TargetURL       string
	StatusCode      int
	ResponseSize    int
	ClientUserAgent string
	Elapsed         time.Duration
	At              time.Time
}

// Recorder sinks request records.
type Recorder interface {
	Record(rec Record) error
}

// Async dispatches rec to r without blocking the caller. Errors and panics
// from the recorder are swallowed.
func Async(r Recorder, rec Record) {
	if r == nil {
		return
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.At.IsZero() {
		rec.At = time.Now()
	}

	go func() {
		defer func() { _ = recover() }()
		_ = r.Record(rec)
	}()
}

// LogRecorder emits records as structured log lines.
type LogRecorder struct {
	logger *logging.Logger
}

// NewLogRecorder creates a recorder writing to logger.
func NewLogRecorder(logger *logging.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Record logs one request observation.
func (l *LogRecorder) Record(rec Record) error {
	l.logger.Info("proxy request",
		zap.String("id", rec.ID),
		zap.String("target_url", rec.TargetURL),
		zap.Int("status", rec.StatusCode),
		zap.Int("response_size", rec.ResponseSize),
		zap.String("client_user_agent", rec.ClientUserAgent),
		zap.Duration("elapsed", rec.Elapsed),
	)
	return nil
}
