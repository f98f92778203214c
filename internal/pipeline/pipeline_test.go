package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/dronewatch/internal/domain"
	"github.com/driftline/dronewatch/internal/observability"
)

type fakeCollector struct {
	name    string
	reports []domain.Report
	err     error
	delay   time.Duration
}

func (f *fakeCollector) Name() string { return f.name }

func (f *fakeCollector) Collect(ctx context.Context) ([]domain.Report, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.reports, f.err
}

type memStore struct {
	ledger  domain.Ledger
	loadErr error
	saveErr error
	saved   []domain.Ledger
}

func (m *memStore) Load(context.Context) (domain.Ledger, error) {
	return m.ledger, m.loadErr
}

func (m *memStore) Save(_ context.Context, l domain.Ledger) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, l)
	m.ledger = l
	return nil
}

type fakeSink struct {
	batches [][]domain.Incident
	err     error
}

func (f *fakeSink) PublishBatch(_ context.Context, incidents []domain.Incident) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, incidents)
	return nil
}

var testGazetteer = domain.Gazetteer{
	Airports: []domain.Asset{
		{Type: domain.AssetAirport, Name: "Copenhagen Airport", IATA: "CPH", ICAO: "EKCH", Lat: 55.62, Lon: 12.66},
		{Type: domain.AssetAirport, Name: "Gatwick Airport", IATA: "LGW", ICAO: "EGKK", Lat: 51.15, Lon: -0.19},
	},
}

func newTestPipeline(t *testing.T, collectors []Collector, store *memStore, sink IncidentSink) *Pipeline {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	sim := domain.PartialRatio{}
	return New(
		collectors,
		domain.NewResolver(testGazetteer, sim, 82),
		sim,
		store,
		sink,
		slog.Default(),
		observability.NewMetricsForTesting(),
		70,
	)
}

func TestRun_EndToEnd(t *testing.T) {
	// Three reports: two resolve to the same airport with near-identical
	// narratives, one classifies as a harbour report but matches no asset.
	collectors := []Collector{
		&fakeCollector{name: "gdelt", reports: []domain.Report{
			{
				Title:     "Drone sighting leaves runway closed at Copenhagen Airport",
				URL:       "https://news.example/1",
				Publisher: "reuters",
				Source:    "gdelt",
			},
			{
				Title:     "Drone disrupts ferry services at the port of Hamburg",
				URL:       "https://news.example/2",
				Publisher: "dpa",
				Source:    "gdelt",
			},
		}},
		&fakeCollector{name: "feed:world", reports: []domain.Report{
			{
				Title:     "Drone sighting leaves runway closed at Copenhagen Airport as airlines divert",
				URL:       "https://news.example/3",
				Publisher: "bbc",
				Source:    "feed:world",
			},
		}},
	}

	store := &memStore{}
	p := newTestPipeline(t, collectors, store, nil)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, store.saved, 1)

	incidents := store.saved[0].Incidents
	require.Len(t, incidents, 1, "near-duplicate reports collapse, unresolvable report drops")

	inc := incidents[0]
	assert.Equal(t, "Copenhagen Airport", inc.Asset.Name)
	assert.Equal(t, domain.AssetAirport, inc.Asset.Type)
	assert.Equal(t, "airport-copenhagen-airport-1788177600", inc.ID)
	assert.Equal(t, domain.CategoryClosure, inc.Details.Category)

	require.Len(t, inc.Evidence.Sources, 2)
	assert.Equal(t, "https://news.example/1", inc.Evidence.Sources[0].URL)
	assert.Equal(t, "https://news.example/3", inc.Evidence.Sources[1].URL)
	assert.Equal(t, 2, inc.Evidence.Strength, "reuters and bbc are both tier-one")
}

func TestRun_MergesIntoExistingLedger(t *testing.T) {
	collectors := []Collector{
		&fakeCollector{name: "gdelt", reports: []domain.Report{{
			Title:     "Copenhagen Airport remains closed after drone sighting at runway",
			URL:       "https://news.example/follow-up",
			Publisher: "afp",
			Source:    "gdelt",
		}}},
	}

	existing := domain.Incident{
		ID:            "airport-copenhagen-airport-1788170000",
		FirstSeenUTC:  time.Date(2026, 8, 31, 9, 53, 20, 0, time.UTC),
		LastUpdateUTC: time.Date(2026, 8, 31, 9, 53, 20, 0, time.UTC),
		Asset:         testGazetteer.Airports[0],
		Details: domain.Details{
			Category:  domain.CategoryClosure,
			Status:    domain.StatusActive,
			Narrative: "Copenhagen Airport closed after drone sighting",
		},
		Evidence: domain.Evidence{
			Strength: 1,
			Sources:  []domain.Source{{URL: "https://news.example/original", Publisher: "dr"}},
		},
		Scores: domain.Scores{Severity: 4, RiskRadiusM: 1000},
	}

	store := &memStore{ledger: domain.Ledger{Incidents: []domain.Incident{existing}}}
	p := newTestPipeline(t, collectors, store, nil)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, store.saved, 1)

	incidents := store.saved[0].Incidents
	require.Len(t, incidents, 1, "follow-up report updates the entry instead of appending")

	inc := incidents[0]
	assert.Equal(t, "airport-copenhagen-airport-1788170000", inc.ID, "identity of the existing entry survives the merge")
	assert.Equal(t, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), inc.LastUpdateUTC)
	require.Len(t, inc.Evidence.Sources, 2)
	assert.Equal(t, "https://news.example/follow-up", inc.Evidence.Sources[1].URL)
}

func TestRun_FailingSourceIsNonFatal(t *testing.T) {
	collectors := []Collector{
		&fakeCollector{name: "gdelt", err: errors.New("gdelt API error: status 429")},
		&fakeCollector{name: "feed:world", reports: []domain.Report{{
			Title:     "Drone sighting closes runway at Gatwick Airport",
			URL:       "https://news.example/lgw",
			Publisher: "bbc",
			Source:    "feed:world",
		}}},
	}

	store := &memStore{}
	p := newTestPipeline(t, collectors, store, nil)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, store.saved, 1)
	require.Len(t, store.saved[0].Incidents, 1)
	assert.Equal(t, "Gatwick Airport", store.saved[0].Incidents[0].Asset.Name)
}

func TestRun_DeterministicCollectorOrder(t *testing.T) {
	// The slower first collector still contributes its reports ahead of the
	// faster second one; reassembly follows declaration order, not completion
	// order. Distinct narratives under one asset stay distinct, in order.
	collectors := []Collector{
		&fakeCollector{name: "gdelt", delay: 30 * time.Millisecond, reports: []domain.Report{{
			Title:     "Runway inspection at Copenhagen Airport after drone debris found",
			URL:       "https://news.example/first",
			Publisher: "ritzau",
			Source:    "gdelt",
		}}},
		&fakeCollector{name: "feed:world", reports: []domain.Report{{
			Title:     "Copenhagen Airport unveils new terminal expansion amid drone concerns",
			URL:       "https://news.example/second",
			Publisher: "cph-post",
			Source:    "feed:world",
		}}},
	}

	store := &memStore{}
	p := newTestPipeline(t, collectors, store, nil)

	require.NoError(t, p.Run(context.Background()))
	incidents := store.saved[0].Incidents
	require.Len(t, incidents, 2)
	assert.Equal(t, "https://news.example/first", incidents[0].Evidence.Sources[0].URL)
	assert.Equal(t, "https://news.example/second", incidents[1].Evidence.Sources[0].URL)
}

func TestRun_PublishesChangedIncidentsToSink(t *testing.T) {
	collectors := []Collector{
		&fakeCollector{name: "gdelt", reports: []domain.Report{{
			Title:     "Drone sighting closes runway at Copenhagen Airport",
			URL:       "https://news.example/1",
			Publisher: "reuters",
			Source:    "gdelt",
		}}},
	}

	untouched := domain.Incident{
		ID:    "harbour-port-of-rotterdam-1788000000",
		Asset: domain.Asset{Type: domain.AssetHarbour, Name: "Port of Rotterdam"},
		Details: domain.Details{
			Category:  domain.CategorySighting,
			Status:    domain.StatusResolved,
			Narrative: "Drone activity near Port of Rotterdam resolved",
		},
	}

	store := &memStore{ledger: domain.Ledger{Incidents: []domain.Incident{untouched}}}
	sink := &fakeSink{}
	p := newTestPipeline(t, collectors, store, sink)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, sink.batches, 1)
	require.Len(t, sink.batches[0], 1, "only the incident this run touched is published")
	assert.Equal(t, "Copenhagen Airport", sink.batches[0][0].Asset.Name)
}

func TestRun_SinkFailureIsNonFatal(t *testing.T) {
	collectors := []Collector{
		&fakeCollector{name: "gdelt", reports: []domain.Report{{
			Title:     "Drone sighting closes runway at Copenhagen Airport",
			URL:       "https://news.example/1",
			Publisher: "reuters",
			Source:    "gdelt",
		}}},
	}

	store := &memStore{}
	p := newTestPipeline(t, collectors, store, &fakeSink{err: errors.New("brokers unreachable")})

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, store.saved, 1, "ledger write is not rolled back on a publish failure")
}

func TestRun_StoreErrors(t *testing.T) {
	collectors := []Collector{&fakeCollector{name: "gdelt"}}

	t.Run("load failure aborts the run", func(t *testing.T) {
		store := &memStore{loadErr: errors.New("disk gone")}
		p := newTestPipeline(t, collectors, store, nil)
		assert.Error(t, p.Run(context.Background()))
	})

	t.Run("save failure aborts the run", func(t *testing.T) {
		store := &memStore{saveErr: errors.New("disk full")}
		p := newTestPipeline(t, collectors, store, nil)
		assert.Error(t, p.Run(context.Background()))
	})
}

func TestRun_EmptyBatchKeepsLedger(t *testing.T) {
	existing := domain.Incident{
		ID:    "airport-gatwick-airport-1788000000",
		Asset: testGazetteer.Airports[1],
		Details: domain.Details{
			Category:  domain.CategorySighting,
			Status:    domain.StatusUnconfirmed,
			Narrative: "Drone near Gatwick Airport",
		},
	}
	store := &memStore{ledger: domain.Ledger{Incidents: []domain.Incident{existing}}}
	sink := &fakeSink{}
	p := newTestPipeline(t, []Collector{&fakeCollector{name: "gdelt"}}, store, sink)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, store.saved, 1)
	require.Len(t, store.saved[0].Incidents, 1)
	assert.Equal(t, existing.ID, store.saved[0].Incidents[0].ID)
	assert.Empty(t, sink.batches, "nothing changed, nothing published")
}

func TestCheckReadiness(t *testing.T) {
	store := &memStore{}
	p := newTestPipeline(t, []Collector{&fakeCollector{name: "gdelt"}}, store, nil)

	assert.Error(t, p.CheckReadiness(context.Background()), "not ready before the first run")
	require.NoError(t, p.Run(context.Background()))
	assert.NoError(t, p.CheckReadiness(context.Background()))
}
