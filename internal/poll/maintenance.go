package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobalert/internal/events"
	"jobalert/internal/notify"
)

const reportTimeout = 15 * time.Second

// Run is the scheduler entry point. Errors and panics from the cycle are
// logged and reported through the sink; they never reach the caller.
func (r *Runner) Run(ctx context.Context) error {
	defer func() {
		if p := recover(); p != nil {
			r.fail(ctx, fmt.Errorf("cycle panic: %v", p))
		}
	}()

	_, err := r.RunCycle(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrCycleInProgress):
		r.d.Metrics.CycleDone("skipped", 0)
		r.log.Warn("cycle skipped, previous run still in progress")
	case ctx.Err() != nil:
		r.log.Info("cycle interrupted", "err", err)
	default:
		r.fail(ctx, err)
	}
	return nil
}

func (r *Runner) fail(ctx context.Context, err error) {
	r.log.Error("cycle failed", "err", err)
	r.d.Metrics.CycleDone("failed", 0)
	r.d.Hub.Emit(events.CycleID(ctx), events.TypeCycleFailed, map[string]string{"error": err.Error()})
	r.updateStatus(func(st *Status) { st.LastError = err.Error() })

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()
	r.d.Sink.Send(rctx, notify.FormatError(err))
}

// Cleanup clears the seen job store and reports how many rows went.
func (r *Runner) Cleanup(ctx context.Context) (int64, error) {
	sctx, cancel := context.WithTimeout(ctx, storeTimeout)
	n, err := r.d.Store.ClearAll(sctx)
	cancel()
	if err != nil {
		r.log.Error("cleanup failed", "err", err)
		return 0, fmt.Errorf("cleanup: %w", err)
	}

	r.d.Metrics.Cleaned(n)
	r.d.Metrics.StoreStats(0, 0)
	r.d.Hub.Emit("", events.TypeCleanupDone, map[string]int64{"deleted": n})
	r.log.Info("cleanup complete", "deleted", n)
	r.d.Sink.Send(ctx, notify.FormatCleanup(n, r.d.Now()))
	return n, nil
}

// Heartbeat reports the store size so a silent bot is noticed.
func (r *Runner) Heartbeat(ctx context.Context) error {
	count, size := r.storeStats(ctx, r.log)
	r.d.Hub.Emit("", events.TypeHeartbeat, map[string]any{"jobs": count, "bytes": size})
	if !r.d.Sink.Send(ctx, notify.FormatHeartbeat(count, size, r.d.Now())) {
		return errors.New("heartbeat not delivered")
	}
	return nil
}

// Announce sends the startup message.
func (r *Runner) Announce(ctx context.Context) bool {
	return r.d.Sink.Send(ctx, notify.FormatStartup(notify.StartupInfo{
		Location:        r.cfg.Search.Location,
		Keywords:        r.cfg.ScrapeKeywords(),
		IntervalMinutes: r.cfg.Schedule.IntervalMinutes,
		CleanupAt:       r.cfg.Schedule.CleanupAt,
	}))
}
