// Package slack posts high-priority incident summaries to a Slack incoming
// webhook.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/driftline/dronewatch/internal/domain"
)

// maxIncidentsPerAlert bounds the message size; the remainder is summarized
// in a trailing context line.
const maxIncidentsPerAlert = 5

// Notifier formats and delivers incident alerts.
type Notifier struct {
	webhookURL string
	logger     *slog.Logger
	// post is swapped in tests to capture the outgoing message.
	post func(ctx context.Context, url string, msg *slackapi.WebhookMessage) error
}

// NewNotifier creates a webhook notifier.
func NewNotifier(webhookURL string, logger *slog.Logger) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		logger:     logger,
		post:       slackapi.PostWebhookContext,
	}
}

// Filter selects incidents worth alerting on: strong evidence or an active
// status. Order is preserved.
func Filter(incidents []domain.Incident) []domain.Incident {
	var out []domain.Incident
	for _, inc := range incidents {
		if inc.Evidence.Strength >= 2 || inc.Details.Status == domain.StatusActive {
			out = append(out, inc)
		}
	}
	return out
}

// Notify posts an alert for the filtered incidents. A nil error with nothing
// to alert on is the common case; delivery failures are returned for the
// caller to log, never to abort on.
func (n *Notifier) Notify(ctx context.Context, incidents []domain.Incident) error {
	alerts := Filter(incidents)
	if len(alerts) == 0 {
		n.logger.Info("no high-priority incidents to alert")
		return nil
	}

	msg := buildMessage(alerts)
	if err := n.post(ctx, n.webhookURL, msg); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	n.logger.Info("sent slack alert", "incidents", min(len(alerts), maxIncidentsPerAlert))
	return nil
}

func buildMessage(alerts []domain.Incident) *slackapi.WebhookMessage {
	blocks := []slackapi.Block{
		slackapi.NewHeaderBlock(slackapi.NewTextBlockObject(
			slackapi.PlainTextType,
			fmt.Sprintf("Drone Incident Alert (%d incidents)", len(alerts)),
			false, false,
		)),
		slackapi.NewContextBlock("",
			slackapi.NewTextBlockObject(slackapi.MarkdownType,
				fmt.Sprintf("Europe-wide monitoring • generated %s",
					time.Now().UTC().Format("2006-01-02 15:04 UTC")),
				false, false,
			),
		),
	}

	shown := alerts
	if len(shown) > maxIncidentsPerAlert {
		shown = shown[:maxIncidentsPerAlert]
	}

	for _, inc := range shown {
		blocks = append(blocks, incidentSection(inc))
		if line := sourcesLine(inc.Evidence.Sources); line != "" {
			blocks = append(blocks, slackapi.NewContextBlock("",
				slackapi.NewTextBlockObject(slackapi.MarkdownType, line, false, false)))
		}
	}

	if rest := len(alerts) - maxIncidentsPerAlert; rest > 0 {
		blocks = append(blocks, slackapi.NewContextBlock("",
			slackapi.NewTextBlockObject(slackapi.MarkdownType,
				fmt.Sprintf("... and %d more incidents", rest), false, false)))
	}

	return &slackapi.WebhookMessage{
		Blocks: &slackapi.Blocks{BlockSet: blocks},
	}
}

func incidentSection(inc domain.Incident) slackapi.Block {
	narrative := inc.Details.Narrative
	if narrative == "" {
		narrative = "No additional details"
	}
	text := fmt.Sprintf("*%s %s*\nStatus: *%s* | Evidence: *%d/2* | Severity: *%d/5*\n_%s_",
		assetEmoji(inc.Asset.Type),
		inc.Asset.Name,
		inc.Details.Status,
		inc.Evidence.Strength,
		inc.Scores.Severity,
		narrative,
	)
	return slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType, text, false, false),
		nil, nil,
	)
}

func sourcesLine(sources []domain.Source) string {
	if len(sources) == 0 {
		return ""
	}
	shown := sources
	if len(shown) > 3 {
		shown = shown[:3]
	}
	line := "Sources: "
	for i, src := range shown {
		if i > 0 {
			line += " • "
		}
		if src.Publisher != "" {
			line += src.Publisher
		} else {
			line += "Unknown"
		}
	}
	return line
}

func assetEmoji(t domain.AssetType) string {
	switch t {
	case domain.AssetAirport:
		return ":airplane:"
	case domain.AssetHarbour:
		return ":ship:"
	default:
		return ":round_pushpin:"
	}
}
