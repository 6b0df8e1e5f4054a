package notify

import (
	"context"

	"jobalert/internal/domain"
	"jobalert/internal/events"
	"jobalert/internal/logging"
	"jobalert/internal/metrics"
)

type Dispatcher struct {
	sink    Sink
	log     *logging.Logger
	metrics *metrics.Metrics
	hub     *events.Hub
}

func NewDispatcher(sink Sink, log *logging.Logger, m *metrics.Metrics, hub *events.Hub) *Dispatcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Dispatcher{sink: sink, log: log, metrics: m, hub: hub}
}

// Dispatch sends at most maxBatch jobs in order and returns how many the
// sink confirmed. A failed send is logged and skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, jobs []domain.Job, maxBatch int) int {
	if maxBatch < 0 {
		maxBatch = 0
	}
	if len(jobs) > maxBatch {
		jobs = jobs[:maxBatch]
	}

	cycleID := events.CycleID(ctx)
	sent := 0
	for i, j := range jobs {
		if ctx.Err() != nil {
			d.log.Warn("dispatch interrupted", "remaining", len(jobs)-i, "err", ctx.Err())
			break
		}

		ok := d.sink.Send(ctx, FormatJob(j))
		d.metrics.Sent(ok)
		if !ok {
			d.log.Warn("alert not delivered", "title", j.Title, "link", j.Link)
			continue
		}
		sent++
		d.hub.Emit(cycleID, events.TypeJobSent, map[string]string{
			"title":  j.Title,
			"link":   j.Link,
			"source": string(j.Source),
		})
	}
	return sent
}
