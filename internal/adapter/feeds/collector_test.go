package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example World News</title>
    <link>https://news.example/world</link>
    <item>
      <title>Drone closes runway at Gatwick</title>
      <link>https://news.example/world/1</link>
      <pubDate>Mon, 31 Aug 2026 11:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Ferry service suspended after drone sighting</title>
      <link>https://news.example/world/2</link>
      <pubDate>Mon, 31 Aug 2026 11:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Unrelated market report</title>
      <link>https://news.example/world/3</link>
      <pubDate>Mon, 31 Aug 2026 10:45:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCollect(t *testing.T) {
	srv := serveFeed(t, rssBody)

	c := NewCollector(srv.URL, 5*time.Second, 40)
	reports, err := c.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 3)
	assert.Equal(t, "Drone closes runway at Gatwick", reports[0].Title)
	assert.Equal(t, "https://news.example/world/1", reports[0].URL)
	assert.Equal(t, "Example World News", reports[0].Publisher, "publisher comes from the feed title")
	assert.Equal(t, "Mon, 31 Aug 2026 11:30:00 GMT", reports[0].Published)
	assert.Equal(t, "feed:"+srv.URL, reports[0].Source)
}

func TestCollect_MaxItemsCapsEntries(t *testing.T) {
	srv := serveFeed(t, rssBody)

	c := NewCollector(srv.URL, 5*time.Second, 2)
	reports, err := c.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, "Drone closes runway at Gatwick", reports[0].Title)
	assert.Equal(t, "Ferry service suspended after drone sighting", reports[1].Title)
}

func TestCollect_UnparseableFeed(t *testing.T) {
	srv := serveFeed(t, "this is not a feed")

	c := NewCollector(srv.URL, 5*time.Second, 40)
	_, err := c.Collect(context.Background())
	assert.Error(t, err)
}

func TestCollect_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewCollector(srv.URL, 5*time.Second, 40)
	_, err := c.Collect(context.Background())
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	c := NewCollector("https://news.example/rss", time.Second, 40)
	assert.Equal(t, "feed:https://news.example/rss", c.Name())
}
