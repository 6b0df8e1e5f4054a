package httpapi

import (
	"jobalert/internal/events"
	"jobalert/internal/logging"
	"jobalert/internal/metrics"
	"jobalert/internal/poll"
)

type Deps struct {
	Log     *logging.Logger
	Hub     *events.Hub
	Metrics *metrics.Metrics

	// Status snapshots the cycle runner.
	Status func() poll.Status

	// Trigger starts a cycle outside the schedule and blocks until it ends.
	// It reports false when a cycle is already running.
	Trigger func() bool
}
