// Package poll runs the scrape, filter, dedup and alert cycle and the
// maintenance tasks around it.
package poll

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"jobalert/internal/config"
	"jobalert/internal/domain"
	"jobalert/internal/events"
	"jobalert/internal/filter"
	"jobalert/internal/logging"
	"jobalert/internal/metrics"
	"jobalert/internal/notify"
	"jobalert/internal/rank"
	"jobalert/internal/scrape"
	"jobalert/internal/store"
)

var ErrCycleInProgress = errors.New("poll: cycle already in progress")

type State string

const (
	StateIdle        State = "idle"
	StateScraping    State = "scraping"
	StateFiltering   State = "filtering"
	StateDispatching State = "dispatching"
	StateSummarizing State = "summarizing"
)

// Deps are the collaborators of a Runner. Sources, Store and Sink are
// required.
type Deps struct {
	Sources []scrape.Source
	Store   store.SeenStore
	Sink    notify.Sink
	Log     *logging.Logger
	Metrics *metrics.Metrics
	Hub     *events.Hub
	Now     func() time.Time
}

type Runner struct {
	cfg        config.Config
	d          Deps
	log        *logging.Logger
	profile    filter.Profile
	strategies map[domain.Source]rank.Strategy
	dispatcher *notify.Dispatcher

	running atomic.Bool
	stMu    sync.Mutex
	status  atomic.Value // Status
}

// New builds a Runner around an immutable config value.
func New(cfg config.Config, d Deps) (*Runner, error) {
	if d.Store == nil || d.Sink == nil {
		return nil, errors.New("poll: store and sink are required")
	}
	if len(d.Sources) == 0 {
		return nil, errors.New("poll: no sources configured")
	}
	if d.Log == nil {
		d.Log = logging.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	strategies := make(map[domain.Source]rank.Strategy, len(d.Sources))
	for _, src := range d.Sources {
		name := recencyFor(cfg, src.Name())
		s, err := rank.ByName(name)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name(), err)
		}
		strategies[src.Name()] = s
	}

	log := d.Log.Component("poll")
	r := &Runner{
		cfg:        cfg,
		d:          d,
		log:        log,
		profile:    filter.NewProfile(cfg.Search.Keywords),
		strategies: strategies,
		dispatcher: notify.NewDispatcher(d.Sink, d.Log.Component("dispatch"), d.Metrics, d.Hub),
	}
	r.status.Store(Status{State: StateIdle})
	return r, nil
}

func recencyFor(cfg config.Config, src domain.Source) string {
	switch src {
	case domain.SourceLinkedIn:
		return cfg.Sources.LinkedIn.Recency
	case domain.SourceNaukri:
		return cfg.Sources.Naukri.Recency
	default:
		return rank.NameStrict
	}
}

// Status is a snapshot for the status API.
type Status struct {
	State       State    `json:"state"`
	Running     bool     `json:"running"`
	CycleID     string   `json:"cycle_id,omitempty"`
	LastRunAt   string   `json:"last_run_at"`
	LastOkAt    string   `json:"last_ok_at"`
	LastError   string   `json:"last_error"`
	LastSummary *Summary `json:"last_summary,omitempty"`
}

func (r *Runner) Status() Status {
	return r.status.Load().(Status)
}

func (r *Runner) updateStatus(fn func(*Status)) {
	r.stMu.Lock()
	defer r.stMu.Unlock()
	st := r.status.Load().(Status)
	fn(&st)
	r.status.Store(st)
}

func (r *Runner) setState(s State) {
	r.updateStatus(func(st *Status) { st.State = s })
}

// Summary is the outcome of one cycle.
type Summary struct {
	CycleID       string    `json:"cycle_id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Scanned       int       `json:"scanned"`
	Matched       int       `json:"matched"`
	New           int       `json:"new"`
	Sent          int       `json:"sent"`
	Deferred      int       `json:"deferred"`
	SourceErrors  int       `json:"source_errors"`
	PersistErrors int       `json:"persist_errors"`
	StoreCount    int       `json:"store_count"`
	StoreBytes    int64     `json:"store_bytes"`
}

func (s Summary) stats() notify.Stats {
	return notify.Stats{
		At:         s.FinishedAt,
		Scanned:    s.Scanned,
		New:        s.New,
		Sent:       s.Sent,
		Deferred:   s.Deferred,
		StoreCount: s.StoreCount,
		StoreBytes: s.StoreBytes,
	}
}

func sourceNames(srcs []scrape.Source) string {
	names := make([]string, 0, len(srcs))
	for _, s := range srcs {
		names = append(names, string(s.Name()))
	}
	return strings.Join(names, ",")
}
