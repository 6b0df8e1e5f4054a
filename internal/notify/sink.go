// Package notify formats alerts and delivers them to a chat sink.
package notify

import (
	"context"

	"jobalert/internal/logging"
)

// Sink delivers one pre-formatted message. It reports delivery and never
// panics into the caller.
type Sink interface {
	Send(ctx context.Context, text string) bool
}

// LogSink writes messages to the log instead of a chat. Used for dry runs.
type LogSink struct {
	Log *logging.Logger
}

func (s LogSink) Send(_ context.Context, text string) bool {
	if s.Log != nil {
		s.Log.Info("message", "text", text)
	}
	return true
}
