package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type SourceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Recency string `yaml:"recency" validate:"oneof=strict lenient"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	Limit   int    `yaml:"limit" validate:"gte=1,lte=100"`
	// UseBrowser renders the search page in headless Chrome.
	UseBrowser            bool `yaml:"use_browser"`
	BrowserTimeoutSeconds int  `yaml:"browser_timeout_seconds" validate:"gte=0"`
}

type Config struct {
	App struct {
		Port      int    `yaml:"port" validate:"gte=0,lte=65535"`
		DataDir   string `yaml:"data_dir"`
		LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
		LogFormat string `yaml:"log_format" validate:"omitempty,oneof=json console"`
	} `yaml:"app"`

	Search struct {
		Location             string   `yaml:"location" validate:"required"`
		Keywords             []string `yaml:"keywords" validate:"min=1,dive,required"`
		KeywordCap           int      `yaml:"keyword_cap" validate:"gte=1"`
		KeywordDelaySeconds  int      `yaml:"keyword_delay_seconds" validate:"gte=0"`
		ScrapeTimeoutSeconds int      `yaml:"scrape_timeout_seconds" validate:"gte=1"`
	} `yaml:"search"`

	Sources struct {
		LinkedIn SourceConfig `yaml:"linkedin"`
		Naukri   SourceConfig `yaml:"naukri"`
	} `yaml:"sources"`

	Fetch struct {
		TimeoutSeconds    int     `yaml:"timeout_seconds" validate:"gte=1"`
		RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`
		Burst             int     `yaml:"burst" validate:"gte=1"`
	} `yaml:"fetch"`

	Alerts struct {
		MaxPerCycle int `yaml:"max_per_cycle" validate:"gte=1"`
		MaxAgeHours int `yaml:"max_age_hours" validate:"gte=1"`
		// MarkTruncatedSeen records jobs beyond the per-cycle cap as seen,
		// so they are never offered again.
		MarkTruncatedSeen  bool `yaml:"mark_truncated_seen"`
		MessageDelayMillis int  `yaml:"message_delay_millis" validate:"gte=0"`
	} `yaml:"alerts"`

	Schedule struct {
		IntervalMinutes int    `yaml:"interval_minutes" validate:"gte=1"`
		CleanupAt       string `yaml:"cleanup_at" validate:"omitempty,hhmm"`
		HeartbeatHours  int    `yaml:"heartbeat_hours" validate:"gte=0"`
		RunOnStart      bool   `yaml:"run_on_start"`
		Announce        bool   `yaml:"announce"`
	} `yaml:"schedule"`

	Store struct {
		Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
		Path   string `yaml:"path"`
		DSN    string `yaml:"dsn"`
	} `yaml:"store"`

	Telegram struct {
		ChatID         int64  `yaml:"chat_id"`
		Token          string `yaml:"-"`
		TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=1"`
		APIEndpoint    string `yaml:"api_endpoint"`
		DisablePreview bool   `yaml:"disable_preview"`
	} `yaml:"telegram"`
}

func Default() Config {
	var c Config
	c.App.Port = 8787
	c.App.DataDir = "."
	c.App.LogLevel = "info"
	c.App.LogFormat = "json"

	c.Search.Location = "remote"
	c.Search.KeywordCap = 3
	c.Search.KeywordDelaySeconds = 5
	c.Search.ScrapeTimeoutSeconds = 60

	c.Sources.LinkedIn = SourceConfig{Enabled: true, Recency: "strict", Limit: 15}
	c.Sources.Naukri = SourceConfig{Enabled: true, Recency: "lenient", Limit: 15, BrowserTimeoutSeconds: 45}

	c.Fetch.TimeoutSeconds = 15
	c.Fetch.RequestsPerSecond = 0.5
	c.Fetch.Burst = 1

	c.Alerts.MaxPerCycle = 10
	c.Alerts.MaxAgeHours = 24
	c.Alerts.MessageDelayMillis = 1000

	c.Schedule.IntervalMinutes = 30
	c.Schedule.CleanupAt = "02:00"
	c.Schedule.HeartbeatHours = 6
	c.Schedule.RunOnStart = true
	c.Schedule.Announce = true

	c.Store.Driver = "sqlite"
	c.Store.Path = "jobs.db"

	c.Telegram.TimeoutSeconds = 10
	return c
}

// Load reads a YAML file over the defaults; absent keys keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// ScrapeKeywords is the prefix of the keyword list searched each cycle.
func (c Config) ScrapeKeywords() []string {
	kw := c.Search.Keywords
	if c.Search.KeywordCap > 0 && len(kw) > c.Search.KeywordCap {
		kw = kw[:c.Search.KeywordCap]
	}
	return append([]string(nil), kw...)
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.Schedule.IntervalMinutes) * time.Minute
}

func (c Config) HeartbeatEvery() time.Duration {
	return time.Duration(c.Schedule.HeartbeatHours) * time.Hour
}

func (c Config) KeywordDelay() time.Duration {
	return time.Duration(c.Search.KeywordDelaySeconds) * time.Second
}

func (c Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.Search.ScrapeTimeoutSeconds) * time.Second
}

// StorePath resolves a relative sqlite path against the data dir.
func (c Config) StorePath() string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(c.App.DataDir, c.Store.Path)
}
