// Package config loads service settings from defaults, an optional YAML
// file, and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `koanf:"http_addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CronSchedule drives service mode; cmd/ingest -once ignores it.
	CronSchedule string `koanf:"cron_schedule"`

	// GDELT keyword-search source.
	GDELTBaseURL    string        `koanf:"gdelt_base_url"`
	GDELTTimespan   time.Duration `koanf:"gdelt_timespan"`
	GDELTMaxRecords int           `koanf:"gdelt_max_records"`
	GDELTTimeout    time.Duration `koanf:"gdelt_timeout"`

	// Syndicated feed sources.
	FeedURLs     []string      `koanf:"feed_urls"`
	FeedTimeout  time.Duration `koanf:"feed_timeout"`
	FeedMaxItems int           `koanf:"feed_max_items"`

	// Gazetteer inputs and the incident ledger.
	AirportsPath string `koanf:"airports_path"`
	HarboursPath string `koanf:"harbours_path"`
	LedgerPath   string `koanf:"ledger_path"`

	// Similarity thresholds (0-100). Heuristics, not proofs: tune with care.
	ResolveThreshold int `koanf:"resolve_threshold"`
	MergeThreshold   int `koanf:"merge_threshold"`

	// Slack webhook destination for cmd/notify.
	SlackWebhookURL string `koanf:"slack_webhook_url"`

	// Optional incident stream sink; disabled while Brokers is empty.
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
}

func defaults() *Config {
	return &Config{
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,
		CronSchedule:    "0 * * * *",

		GDELTBaseURL:    "https://api.gdeltproject.org/api/v2/doc/doc",
		GDELTTimespan:   90 * time.Minute,
		GDELTMaxRecords: 75,
		GDELTTimeout:    60 * time.Second,

		FeedURLs:     []string{"https://www.reuters.com/rssFeed/world/europe"},
		FeedTimeout:  30 * time.Second,
		FeedMaxItems: 40,

		AirportsPath: "data/assets/airports.csv",
		HarboursPath: "data/assets/harbours.geojson",
		LedgerPath:   "public/incidents.json",

		ResolveThreshold: 82,
		MergeThreshold:   70,

		KafkaTopic: "drone-incidents",
	}
}

// Load builds a Config by layering:
//  1. defaults
//  2. YAML file named by DRONEWATCH_CONFIG, if set
//  3. environment variables (prefix DRONEWATCH_, e.g. DRONEWATCH_LEDGER_PATH)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("DRONEWATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// DRONEWATCH_MERGE_THRESHOLD -> merge_threshold; underscores preserved
	// to match the koanf tags. List values are comma-separated.
	envProvider := env.ProviderWithValue("DRONEWATCH_", ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, "DRONEWATCH_"))
		if key == "feed_urls" || key == "kafka_brokers" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LedgerPath == "" {
		return errors.New("ledger_path is required")
	}
	if c.AirportsPath == "" || c.HarboursPath == "" {
		return errors.New("airports_path and harbours_path are required")
	}
	if c.ResolveThreshold < 0 || c.ResolveThreshold > 100 {
		return fmt.Errorf("resolve_threshold out of range: %d", c.ResolveThreshold)
	}
	if c.MergeThreshold < 0 || c.MergeThreshold > 100 {
		return fmt.Errorf("merge_threshold out of range: %d", c.MergeThreshold)
	}
	if c.GDELTMaxRecords <= 0 {
		return fmt.Errorf("gdelt_max_records must be positive: %d", c.GDELTMaxRecords)
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return errors.New("kafka_topic is required when kafka_brokers is set")
	}
	return nil
}

// SinkEnabled reports whether the optional incident stream sink is configured.
func (c *Config) SinkEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
