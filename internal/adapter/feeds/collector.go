// Package feeds collects candidate reports from syndicated RSS/Atom feeds.
package feeds

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/driftline/dronewatch/internal/domain"
)

// Collector fetches a single feed URL and normalizes its entries into
// reports. One Collector per configured feed keeps source failures isolated
// and the reassembly order stable. It implements pipeline.Collector.
type Collector struct {
	parser   *gofeed.Parser
	url      string
	timeout  time.Duration
	maxItems int
}

// NewCollector creates a feed collector. maxItems caps how many entries are
// taken from the top of the feed.
func NewCollector(url string, timeout time.Duration, maxItems int) *Collector {
	return &Collector{
		parser:   gofeed.NewParser(),
		url:      url,
		timeout:  timeout,
		maxItems: maxItems,
	}
}

func (c *Collector) Name() string { return "feed:" + c.url }

// Collect fetches and parses the feed. The feed's own title becomes the
// publisher for every entry.
func (c *Collector) Collect(ctx context.Context) ([]domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	feed, err := c.parser.ParseURLWithContext(c.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", c.url, err)
	}

	items := feed.Items
	if len(items) > c.maxItems {
		items = items[:c.maxItems]
	}

	reports := make([]domain.Report, 0, len(items))
	for _, item := range items {
		reports = append(reports, domain.Report{
			Title:     item.Title,
			URL:       item.Link,
			Publisher: feed.Title,
			Published: item.Published,
			Source:    c.Name(),
		})
	}
	return reports, nil
}
