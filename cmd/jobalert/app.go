package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"jobalert/internal/config"
	"jobalert/internal/events"
	"jobalert/internal/fetch"
	"jobalert/internal/logging"
	"jobalert/internal/metrics"
	"jobalert/internal/notify"
	"jobalert/internal/poll"
	"jobalert/internal/scrape"
	"jobalert/internal/scrape/linkedin"
	"jobalert/internal/scrape/naukri"
	"jobalert/internal/secrets"
	"jobalert/internal/store"
)

// loadConfig resolves the data dir, bootstraps config.yml and applies the
// keyword overlay and environment on top.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return config.Config{}, err
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = config.DataDirFromEnv(".")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return config.Config{}, fmt.Errorf("create data dir: %w", err)
	}

	cfgPath := flagConfig
	if cfgPath == "" {
		p, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
		if err != nil {
			return config.Config{}, fmt.Errorf("config bootstrap failed: %w", err)
		}
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config load failed (%s): %w", cfgPath, err)
	}
	if err := config.OverlayKeywords(&cfg, filepath.Join(dataDir, "keywords.yml")); err != nil {
		return config.Config{}, fmt.Errorf("keywords overlay: %w", err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return config.Config{}, err
	}
	cfg.App.DataDir = dataDir

	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		fmt.Fprintln(os.Stderr, "config warning:", w)
	}
	if err := v.Err(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// lockDataDir keeps two instances from alerting twice off one store.
func lockDataDir(dataDir string) (*flock.Flock, error) {
	fl := flock.New(filepath.Join(dataDir, "jobalert.lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data dir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another jobalert instance holds %s", fl.Path())
	}
	return fl, nil
}

func openStore(ctx context.Context, cfg config.Config) (store.SeenStore, error) {
	return store.Open(ctx, store.Options{
		Driver: cfg.Store.Driver,
		Path:   cfg.StorePath(),
		DSN:    cfg.Store.DSN,
	})
}

func buildSources(cfg config.Config) []scrape.Source {
	lim := fetch.NewHostLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst)
	fc := fetch.NewClient(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, lim)

	var srcs []scrape.Source
	if sc := cfg.Sources.LinkedIn; sc.Enabled {
		srcs = append(srcs, linkedin.New(linkedin.Config{BaseURL: sc.BaseURL, Limit: sc.Limit}, fc))
	}
	if sc := cfg.Sources.Naukri; sc.Enabled {
		var r fetch.Renderer
		if sc.UseBrowser {
			r = fetch.Browser{
				Timeout: time.Duration(sc.BrowserTimeoutSeconds) * time.Second,
				Settle:  3 * time.Second,
			}
		}
		srcs = append(srcs, naukri.New(naukri.Config{BaseURL: sc.BaseURL, Limit: sc.Limit}, fc, r))
	}
	return srcs
}

func newSink(cfg config.Config, log *logging.Logger, dryRun bool) (notify.Sink, error) {
	if dryRun {
		return notify.LogSink{Log: log.Component("dry-run")}, nil
	}

	token, err := secrets.ResolveToken(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		if errors.Is(err, secrets.ErrTokenNotFound) {
			return nil, fmt.Errorf("no telegram token: set %s or run `jobalert token set`", config.EnvToken)
		}
		return nil, err
	}

	tg, err := notify.NewTelegram(notify.TelegramConfig{
		Token:       token,
		ChatID:      cfg.Telegram.ChatID,
		Timeout:     time.Duration(cfg.Telegram.TimeoutSeconds) * time.Second,
		Delay:       time.Duration(cfg.Alerts.MessageDelayMillis) * time.Millisecond,
		APIEndpoint: cfg.Telegram.APIEndpoint,
		NoPreview:   cfg.Telegram.DisablePreview,
	}, log.Component("telegram"))
	if err != nil {
		return nil, err
	}
	log.Info("telegram bot ready", "bot", tg.BotName())
	return tg, nil
}

// app is everything a command needs to run cycles.
type app struct {
	lock    *flock.Flock
	cfg     config.Config
	log     *logging.Logger
	store   store.SeenStore
	metrics *metrics.Metrics
	hub     *events.Hub
	runner  *poll.Runner
}

func newApp(ctx context.Context, cfg config.Config, dryRun bool) (*app, error) {
	log := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	sink, err := newSink(cfg, log, dryRun)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	m := metrics.New()
	hub := events.NewHub()
	runner, err := poll.New(cfg, poll.Deps{
		Sources: buildSources(cfg),
		Store:   st,
		Sink:    sink,
		Log:     log,
		Metrics: m,
		Hub:     hub,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &app{cfg: cfg, log: log, store: st, metrics: m, hub: hub, runner: runner}, nil
}

// openApp loads the config, takes the data dir lock and builds the app.
func openApp(ctx context.Context, dryRun bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	fl, err := lockDataDir(cfg.App.DataDir)
	if err != nil {
		return nil, err
	}
	a, err := newApp(ctx, cfg, dryRun)
	if err != nil {
		_ = fl.Unlock()
		return nil, err
	}
	a.lock = fl
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close store", "err", err)
	}
	if a.lock != nil {
		_ = a.lock.Unlock()
	}
	_ = a.log.Sync()
}
