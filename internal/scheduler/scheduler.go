// Package scheduler runs named tasks on cron schedules. A task never runs
// twice at once; a tick that finds it busy is skipped.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"jobalert/internal/logging"
)

type Task func(ctx context.Context) error

type Job struct {
	Name string
	// Spec is a 5-field cron expression or a descriptor such as "@every 30m".
	Spec       string
	Task       Task
	RunOnStart bool
}

type entry struct {
	job  Job
	id   cron.EntryID
	lock sync.Mutex
}

type Scheduler struct {
	mu      sync.Mutex
	log     *logging.Logger
	loc     *time.Location
	cron    *cron.Cron
	entries map[string]*entry
	order   []string
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(log *logging.Logger, loc *time.Location) *Scheduler {
	if log == nil {
		log = logging.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		log:     log,
		loc:     loc,
		entries: make(map[string]*entry),
	}
}

// Add registers a job. Must be called before Start.
func (s *Scheduler) Add(j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j.Name == "" || j.Task == nil {
		return fmt.Errorf("scheduler: job needs a name and a task")
	}
	if _, exists := s.entries[j.Name]; exists {
		return fmt.Errorf("scheduler: duplicate job name %q", j.Name)
	}
	s.entries[j.Name] = &entry{job: j}
	s.order = append(s.order, j.Name)
	return nil
}

// Start validates every schedule and begins ticking. Jobs flagged
// RunOnStart fire once immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithLocation(s.loc))

	for _, name := range s.order {
		e := s.entries[name]
		id, err := c.AddFunc(e.job.Spec, func() { s.fire(e) })
		if err != nil {
			return fmt.Errorf("scheduler: invalid schedule for job %q: %w", name, err)
		}
		e.id = id
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron = c
	c.Start()

	for _, name := range s.order {
		if e := s.entries[name]; e.job.RunOnStart {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.fire(e)
			}()
		}
	}

	s.log.Info("scheduler started", "jobs", len(s.order))
	return nil
}

// Trigger runs a job now, outside its schedule. It reports false when the
// job is unknown or already running.
func (s *Scheduler) Trigger(name string) bool {
	s.mu.Lock()
	e, ok := s.entries[name]
	started := s.ctx != nil
	s.mu.Unlock()
	if !ok || !started {
		return false
	}
	return s.fire(e)
}

func (s *Scheduler) fire(e *entry) bool {
	if !e.lock.TryLock() {
		s.log.Warn("job still running, skipping tick", "job", e.job.Name)
		return false
	}
	defer e.lock.Unlock()

	if s.ctx.Err() != nil {
		return false
	}

	start := time.Now()
	s.log.Debug("job started", "job", e.job.Name)
	if err := e.job.Task(s.ctx); err != nil {
		s.log.Error("job failed", "job", e.job.Name, "err", err, "took", time.Since(start))
	} else {
		s.log.Debug("job completed", "job", e.job.Name, "took", time.Since(start))
	}
	return true
}

// Next reports when a job fires next.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if s.cron == nil || !ok {
		return time.Time{}, false
	}
	next := s.cron.Entry(e.id).Next
	return next, !next.IsZero()
}

// Stop cancels running tasks and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c != nil {
		<-c.Stop().Done()
	}
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}
