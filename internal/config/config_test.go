package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "0 * * * *", cfg.CronSchedule)

	assert.Equal(t, "https://api.gdeltproject.org/api/v2/doc/doc", cfg.GDELTBaseURL)
	assert.Equal(t, 90*time.Minute, cfg.GDELTTimespan)
	assert.Equal(t, 75, cfg.GDELTMaxRecords)

	assert.Equal(t, []string{"https://www.reuters.com/rssFeed/world/europe"}, cfg.FeedURLs)
	assert.Equal(t, 40, cfg.FeedMaxItems)

	assert.Equal(t, "data/assets/airports.csv", cfg.AirportsPath)
	assert.Equal(t, "data/assets/harbours.geojson", cfg.HarboursPath)
	assert.Equal(t, "public/incidents.json", cfg.LedgerPath)

	assert.Equal(t, 82, cfg.ResolveThreshold)
	assert.Equal(t, 70, cfg.MergeThreshold)

	assert.Empty(t, cfg.SlackWebhookURL)
	assert.False(t, cfg.SinkEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DRONEWATCH_HTTP_ADDR", ":9090")
	t.Setenv("DRONEWATCH_LOG_LEVEL", "debug")
	t.Setenv("DRONEWATCH_LOG_FORMAT", "text")
	t.Setenv("DRONEWATCH_LEDGER_PATH", "/var/lib/dronewatch/incidents.json")
	t.Setenv("DRONEWATCH_MERGE_THRESHOLD", "80")
	t.Setenv("DRONEWATCH_FEED_URLS", "https://a.example/rss, https://b.example/rss")
	t.Setenv("DRONEWATCH_KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "/var/lib/dronewatch/incidents.json", cfg.LedgerPath)
	assert.Equal(t, 80, cfg.MergeThreshold)
	assert.Equal(t, []string{"https://a.example/rss", "https://b.example/rss"}, cfg.FeedURLs)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SinkEnabled())
	assert.Equal(t, "drone-incidents", cfg.KafkaTopic)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"merge_threshold: 75\nledger_path: /tmp/ledger.json\n"), 0o644))
	t.Setenv("DRONEWATCH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.MergeThreshold)
	assert.Equal(t, "/tmp/ledger.json", cfg.LedgerPath)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("merge_threshold: 75\n"), 0o644))
	t.Setenv("DRONEWATCH_CONFIG", path)
	t.Setenv("DRONEWATCH_MERGE_THRESHOLD", "65")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 65, cfg.MergeThreshold)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("ledger path required", func(t *testing.T) {
		t.Setenv("DRONEWATCH_LEDGER_PATH", "")
		// empty env var still overrides the default
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ledger_path")
	})

	t.Run("threshold range", func(t *testing.T) {
		t.Setenv("DRONEWATCH_MERGE_THRESHOLD", "101")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "merge_threshold")
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("DRONEWATCH_CONFIG", "/nonexistent/config.yaml")
		_, err := Load()
		require.Error(t, err)
	})
}
