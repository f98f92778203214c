// Package gdelt collects candidate reports from the GDELT DOC 2.0 API.
package gdelt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/driftline/dronewatch/internal/domain"
)

// query is the fixed keyword search for drone activity near airports and
// harbours. GDELT's query language treats OR groups in parentheses.
const query = `(drone OR uav) AND (airport OR airfield OR runway OR port OR harbour OR harbor OR ferry OR quay OR berth OR vts)`

// Client fetches keyword-search articles from GDELT and normalizes them into
// reports. It implements pipeline.Collector.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timespan   time.Duration
	maxRecords int
}

// NewClient creates a GDELT collector. timespan bounds how far back the
// search looks; maxRecords caps the result size.
func NewClient(baseURL string, timeout, timespan time.Duration, maxRecords int) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		timespan:   timespan,
		maxRecords: maxRecords,
	}
}

func (c *Client) Name() string { return "gdelt" }

// Collect runs the keyword search and returns normalized reports in API
// order. Failures are returned to the caller; the pipeline treats them as
// non-fatal.
func (c *Client) Collect(ctx context.Context) ([]domain.Report, error) {
	params := url.Values{
		"query":      {query},
		"format":     {"json"},
		"maxrecords": {fmt.Sprintf("%d", c.maxRecords)},
		"timespan":   {fmt.Sprintf("MINUTE:%d", int(c.timespan.Minutes()))},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gdelt request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gdelt API error: status %d: %s", resp.StatusCode, body)
	}

	var doc response
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	reports := make([]domain.Report, 0, len(doc.Articles))
	for _, a := range doc.Articles {
		reports = append(reports, domain.Report{
			Title:     a.Title,
			URL:       a.URL,
			Publisher: a.SourceDomain,
			Language:  a.Language,
			Published: a.SeenDate,
			Source:    c.Name(),
		})
	}
	return reports, nil
}

// GDELT DOC 2.0 response types.

type response struct {
	Articles []article `json:"articles"`
}

type article struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	SourceDomain string `json:"sourceDomain"`
	Language     string `json:"language"`
	SeenDate     string `json:"seendate"`
}
