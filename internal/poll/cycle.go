package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jobalert/internal/dedup"
	"jobalert/internal/domain"
	"jobalert/internal/events"
	"jobalert/internal/logging"
	"jobalert/internal/notify"
)

const storeTimeout = 10 * time.Second

// RunCycle performs one scrape, filter, dedup, dispatch and summary pass.
// Source failures are logged and treated as empty results. It returns
// ErrCycleInProgress when another cycle holds the guard.
func (r *Runner) RunCycle(ctx context.Context) (Summary, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Summary{}, ErrCycleInProgress
	}
	defer r.running.Store(false)

	sum := Summary{CycleID: uuid.NewString(), StartedAt: r.d.Now()}
	ctx = events.WithCycleID(ctx, sum.CycleID)
	log := r.log.With("cycle", sum.CycleID)

	r.updateStatus(func(st *Status) {
		st.Running = true
		st.CycleID = sum.CycleID
		st.LastRunAt = sum.StartedAt.Format(time.RFC3339)
	})
	defer r.updateStatus(func(st *Status) {
		st.Running = false
		st.State = StateIdle
		st.CycleID = ""
	})

	r.d.Hub.Emit(sum.CycleID, events.TypeCycleStarted, map[string]any{
		"keywords": r.cfg.ScrapeKeywords(),
		"sources":  sourceNames(r.d.Sources),
	})
	log.Info("cycle started", "keywords", len(r.cfg.ScrapeKeywords()), "sources", sourceNames(r.d.Sources))

	r.setState(StateScraping)
	raw, err := r.scrapeAll(ctx, log, &sum)
	if err != nil {
		return sum, err
	}
	sum.Scanned = len(raw)

	r.setState(StateFiltering)
	candidates := r.selectFresh(raw)
	sum.Matched = len(candidates)

	admitted, err := r.admit(ctx, log, candidates, &sum)
	if err != nil {
		return sum, err
	}
	sum.New = len(admitted)

	r.setState(StateDispatching)
	sum.Sent = r.dispatcher.Dispatch(ctx, admitted, r.cfg.Alerts.MaxPerCycle)
	if len(admitted) > sum.Sent {
		log.Info("alerts not sent this cycle", "count", len(admitted)-sum.Sent)
	}

	r.setState(StateSummarizing)
	sum.StoreCount, sum.StoreBytes = r.storeStats(ctx, log)
	sum.FinishedAt = r.d.Now()
	r.d.Sink.Send(ctx, notify.FormatSummary(sum.stats()))

	r.d.Metrics.Deferred(sum.Deferred)
	r.d.Metrics.CycleDone("ok", sum.FinishedAt.Sub(sum.StartedAt))
	r.d.Hub.Emit(sum.CycleID, events.TypeCycleFinished, sum)
	r.updateStatus(func(st *Status) {
		s := sum
		st.LastSummary = &s
		st.LastError = ""
		st.LastOkAt = sum.FinishedAt.Format(time.RFC3339)
	})

	log.Info("cycle complete",
		"scanned", sum.Scanned,
		"matched", sum.Matched,
		"new", sum.New,
		"sent", sum.Sent,
		"deferred", sum.Deferred,
		"source_errors", sum.SourceErrors,
	)
	return sum, nil
}

// scrapeAll fans out to every source for each searched keyword, pausing
// between keywords.
func (r *Runner) scrapeAll(ctx context.Context, log *logging.Logger, sum *Summary) ([]domain.Job, error) {
	var all []domain.Job
	location := r.cfg.Search.Location

	for i, kw := range r.cfg.ScrapeKeywords() {
		if i > 0 {
			if err := sleepCtx(ctx, r.cfg.KeywordDelay()); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results := make([][]domain.Job, len(r.d.Sources))
		errs := make([]error, len(r.d.Sources))

		var g errgroup.Group
		for idx, src := range r.d.Sources {
			g.Go(func() error {
				sctx, cancel := context.WithTimeout(ctx, r.cfg.ScrapeTimeout())
				defer cancel()
				defer func() {
					if p := recover(); p != nil {
						errs[idx] = fmt.Errorf("%s scraper panic: %v", src.Name(), p)
					}
				}()
				results[idx], errs[idx] = src.Scrape(sctx, kw, location)
				return nil
			})
		}
		_ = g.Wait()

		for idx, src := range r.d.Sources {
			name := string(src.Name())
			if errs[idx] != nil {
				sum.SourceErrors++
				r.d.Metrics.SourceError(name)
				log.Warn("source unavailable", "source", name, "keyword", kw, "err", errs[idx])
				continue
			}
			r.d.Metrics.Scraped(name, len(results[idx]))
			log.Debug("scraped", "source", name, "keyword", kw, "jobs", len(results[idx]))
			all = append(all, results[idx]...)
		}
	}
	return all, nil
}

// selectFresh normalizes, keyword-filters and applies each source's
// recency strategy. Output keeps source order.
func (r *Runner) selectFresh(raw []domain.Job) []domain.Job {
	bySource := make(map[domain.Source][]domain.Job)
	for _, j := range raw {
		if !j.Normalize(r.cfg.Search.Location) {
			continue
		}
		if !r.profile.Matches(j.Title) {
			continue
		}
		bySource[j.Source] = append(bySource[j.Source], j)
	}

	now := r.d.Now()
	var out []domain.Job
	for _, src := range r.d.Sources {
		jobs := bySource[src.Name()]
		if len(jobs) == 0 {
			continue
		}
		out = append(out, r.strategies[src.Name()].Select(jobs, r.cfg.Alerts.MaxAgeHours, now)...)
		delete(bySource, src.Name())
	}
	return out
}

// admit runs candidates through the dedup gate. Unless truncated jobs are
// to be marked seen, admission stops at the per-cycle cap so the rest stay
// eligible for a later cycle; only those a later cycle would send count as
// deferred.
func (r *Runner) admit(ctx context.Context, log *logging.Logger, candidates []domain.Job, sum *Summary) ([]domain.Job, error) {
	gate := dedup.NewGate(r.d.Store, r.d.Log.Component("dedup"))
	limit := r.cfg.Alerts.MaxPerCycle

	var admitted []domain.Job
	for i, j := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.cfg.Alerts.MarkTruncatedSeen && len(admitted) >= limit {
			sum.Deferred = r.countPending(ctx, log, gate, candidates[i:])
			break
		}

		sctx, cancel := context.WithTimeout(ctx, storeTimeout)
		ok, err := gate.Admit(sctx, j)
		cancel()
		if err != nil {
			sum.PersistErrors++
			r.d.Metrics.PersistError()
			log.Warn("job skipped", "link", j.Link, "err", err)
			continue
		}
		if ok {
			r.d.Metrics.Admitted()
			admitted = append(admitted, j)
		}
	}
	return admitted, nil
}

// countPending counts distinct links in rest that are not stored yet.
// Lookup failures are logged and not counted.
func (r *Runner) countPending(ctx context.Context, log *logging.Logger, gate *dedup.Gate, rest []domain.Job) int {
	n := 0
	for _, j := range rest {
		if ctx.Err() != nil {
			break
		}
		sctx, cancel := context.WithTimeout(ctx, storeTimeout)
		ok, err := gate.Pending(sctx, j)
		cancel()
		if err != nil {
			log.Warn("deferred lookup", "link", j.Link, "err", err)
			continue
		}
		if ok {
			n++
		}
	}
	return n
}

func (r *Runner) storeStats(ctx context.Context, log *logging.Logger) (int, int64) {
	sctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	count, err := r.d.Store.Count(sctx)
	if err != nil {
		log.Warn("store count", "err", err)
	}
	size, err := r.d.Store.SizeBytes(sctx)
	if err != nil {
		log.Warn("store size", "err", err)
	}
	r.d.Metrics.StoreStats(count, size)
	return count, size
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
