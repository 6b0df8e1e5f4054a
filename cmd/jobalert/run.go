package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jobalert/internal/httpapi"
	"jobalert/internal/scheduler"
)

const (
	jobCycle     = "cycle"
	jobCleanup   = "cleanup"
	jobHeartbeat = "heartbeat"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler until interrupted",
	Long:  "Run scrape cycles on the configured interval, clear the store daily, send heartbeats and serve the status API.",
	RunE:  runRun,
}

var runDryRun bool

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Log messages instead of sending them")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, runDryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}

	if a.cfg.Schedule.Announce {
		a.runner.Announce(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })

	if a.cfg.App.Port > 0 {
		srv := httpapi.NewServer(a.cfg.App.Port, httpapi.Handler(httpapi.Deps{
			Log:     a.log,
			Hub:     a.hub,
			Metrics: a.metrics,
			Status:  a.runner.Status,
			Trigger: func() bool { return sched.Trigger(jobCycle) },
		}))
		g.Go(func() error { return httpapi.Serve(gctx, srv, a.log) })
	}

	a.log.Info("jobalert running",
		"interval", a.cfg.Interval().String(),
		"cleanup_at", a.cfg.Schedule.CleanupAt,
		"keywords", len(a.cfg.ScrapeKeywords()),
	)
	err = g.Wait()
	a.log.Info("jobalert stopped")
	return err
}

func newScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log.Component("scheduler"), time.Local)

	jobs := []scheduler.Job{{
		Name:       jobCycle,
		Spec:       scheduler.Every(a.cfg.Interval()),
		Task:       a.runner.Run,
		RunOnStart: a.cfg.Schedule.RunOnStart,
	}}
	if a.cfg.Schedule.CleanupAt != "" {
		spec, err := scheduler.DailyAt(a.cfg.Schedule.CleanupAt)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, scheduler.Job{
			Name: jobCleanup,
			Spec: spec,
			Task: func(ctx context.Context) error {
				_, err := a.runner.Cleanup(ctx)
				return err
			},
		})
	}
	if every := a.cfg.HeartbeatEvery(); every > 0 {
		jobs = append(jobs, scheduler.Job{
			Name: jobHeartbeat,
			Spec: scheduler.Every(every),
			Task: a.runner.Heartbeat,
		})
	}

	for _, j := range jobs {
		if err := sched.Add(j); err != nil {
			return nil, err
		}
	}
	return sched, nil
}
