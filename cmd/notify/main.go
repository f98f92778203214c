// Command notify reads an incident ledger file and posts a Slack alert for
// high-priority incidents (evidence strength >= 2 or active status).
//
// Usage:
//
//	DRONEWATCH_SLACK_WEBHOOK_URL=https://hooks.slack.com/... \
//	  go run ./cmd/notify -ledger public/incidents.json
//
// Exit codes: 0 on success (including nothing to alert), 1 on a ledger read
// error, 2 when no webhook destination is configured. Delivery failures are
// logged and exit 0: alerting is best-effort.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	slackadapter "github.com/driftline/dronewatch/internal/adapter/slack"
	"github.com/driftline/dronewatch/internal/config"
	"github.com/driftline/dronewatch/internal/domain"
	"github.com/driftline/dronewatch/internal/observability"
)

func main() {
	ledgerPath := flag.String("ledger", "", "path to the incident ledger JSON (defaults to configured ledger_path)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)

	if cfg.SlackWebhookURL == "" {
		logger.Error("no slack webhook configured (set DRONEWATCH_SLACK_WEBHOOK_URL)")
		os.Exit(2)
	}

	path := *ledgerPath
	if path == "" {
		path = cfg.LedgerPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read ledger", "path", path, "error", err)
		os.Exit(1)
	}
	var l domain.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		logger.Error("failed to parse ledger", "path", path, "error", err)
		os.Exit(1)
	}

	notifier := slackadapter.NewNotifier(cfg.SlackWebhookURL, logger)
	if err := notifier.Notify(context.Background(), l.Incidents); err != nil {
		// Delivery failure is recovered locally; the next scheduled run
		// alerts again.
		logger.Warn("alert delivery failed", "error", err)
	}
}
