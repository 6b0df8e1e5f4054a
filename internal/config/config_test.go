package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultYAMLMatchesDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, yaml.Unmarshal(DefaultYAML(), &cfg))

	out, res := NormalizeAndValidate(cfg)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "lenient", out.Sources.Naukri.Recency)
	assert.Equal(t, "strict", out.Sources.LinkedIn.Recency)
	assert.Equal(t, []string{"java developer", "backend developer", "software engineer"}, out.ScrapeKeywords())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  keywords: [golang]\nalerts:\n  max_per_cycle: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"golang"}, cfg.Search.Keywords)
	assert.Equal(t, 4, cfg.Alerts.MaxPerCycle)
	assert.Equal(t, 24, cfg.Alerts.MaxAgeHours)
	assert.Equal(t, "02:00", cfg.Schedule.CleanupAt)
}

func TestNormalizeAndValidate_Errors(t *testing.T) {
	cfg := Default()
	cfg.Search.Keywords = []string{"  ", ""}
	cfg.Alerts.MaxPerCycle = 0
	cfg.Schedule.CleanupAt = "25:99"
	cfg.Sources.Naukri.Recency = "fuzzy"
	cfg.Store.Driver = "postgres"

	_, res := NormalizeAndValidate(cfg)

	require.False(t, res.OK())
	joined := res.Err().Error()
	assert.Contains(t, joined, "search.keywords")
	assert.Contains(t, joined, "alerts.max_per_cycle")
	assert.Contains(t, joined, "schedule.cleanup_at")
	assert.Contains(t, joined, "sources.naukri.recency")
	assert.Contains(t, joined, "store.dsn is required")
}

func TestNormalizeAndValidate_TrimsAndWarns(t *testing.T) {
	cfg := Default()
	cfg.Search.Keywords = []string{" Go ", "go", "rust"}
	cfg.Sources.LinkedIn.Recency = " STRICT "
	cfg.Schedule.IntervalMinutes = 2

	out, res := NormalizeAndValidate(cfg)

	assert.True(t, res.OK(), res.Errors)
	assert.NoError(t, res.Err())
	assert.Equal(t, []string{"Go", "rust"}, out.Search.Keywords)
	assert.Equal(t, "strict", out.Sources.LinkedIn.Recency)
	assert.NotEmpty(t, res.Warnings)
}

func TestNormalizeAndValidate_NoSources(t *testing.T) {
	cfg := Default()
	cfg.Search.Keywords = []string{"go"}
	cfg.Sources.LinkedIn.Enabled = false
	cfg.Sources.Naukri.Enabled = false

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvToken, "123:abc")
	t.Setenv(EnvChatID, "-1001")
	t.Setenv(EnvStoreDSN, "postgres://u@localhost/jobs")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.EqualValues(t, -1001, cfg.Telegram.ChatID)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestApplyEnv_BadChatID(t *testing.T) {
	t.Setenv(EnvChatID, "not-a-number")
	cfg := Default()
	assert.Error(t, ApplyEnv(&cfg))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("JOBALERT_TEST_DOTENV=loaded\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("JOBALERT_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envPath))
	assert.Equal(t, "loaded", os.Getenv("JOBALERT_TEST_DOTENV"))
}

func TestEnsureUserConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	path, err := EnsureUserConfig(dir, filepath.Join(dir, "nope.yml"))
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultYAML(), b)

	// an existing file is left alone
	require.NoError(t, os.WriteFile(path, []byte("app: {port: 1}\n"), 0o644))
	again, err := EnsureUserConfig(dir, "")
	require.NoError(t, err)
	b, err = os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, "app: {port: 1}\n", string(b))
}

func TestOverlayKeywords(t *testing.T) {
	cfg := Default()
	require.NoError(t, OverlayKeywords(&cfg, filepath.Join(t.TempDir(), "missing.yml")))

	path := filepath.Join(t.TempDir(), "keywords.yml")
	require.NoError(t, os.WriteFile(path, []byte("location: india\nkeywords: [sre, devops]\n"), 0o644))
	require.NoError(t, OverlayKeywords(&cfg, path))

	assert.Equal(t, []string{"sre", "devops"}, cfg.Search.Keywords)
	assert.Equal(t, "india", cfg.Search.Location)
}

func TestStorePath(t *testing.T) {
	cfg := Default()
	cfg.App.DataDir = "/var/lib/jobalert"
	assert.Equal(t, "/var/lib/jobalert/jobs.db", cfg.StorePath())

	cfg.Store.Path = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.StorePath())
}
