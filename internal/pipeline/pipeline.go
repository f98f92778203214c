// Package pipeline orchestrates one ingestion run: collect, classify,
// resolve, score, dedupe, merge against the persisted ledger, persist.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/driftline/dronewatch/internal/domain"
	"github.com/driftline/dronewatch/internal/observability"
)

// Collector fetches raw reports from one source. Failures are non-fatal: a
// failing source contributes zero reports and the run proceeds.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]domain.Report, error)
}

// LedgerStore persists the incident ledger. Read once at run start, written
// once at run end.
type LedgerStore interface {
	Load(ctx context.Context) (domain.Ledger, error)
	Save(ctx context.Context, l domain.Ledger) error
}

// IncidentSink receives the incidents a run created or updated. Optional;
// publish failures are logged, never fatal.
type IncidentSink interface {
	PublishBatch(ctx context.Context, incidents []domain.Incident) error
}

// Pipeline wires the stages together for a batch run.
type Pipeline struct {
	collectors     []Collector
	resolver       *domain.Resolver
	sim            domain.Similarity
	store          LedgerStore
	sink           IncidentSink // nil when the stream sink is disabled
	logger         *slog.Logger
	metrics        *observability.Metrics
	mergeThreshold int
	ready          atomic.Bool
}

// New creates a Pipeline. Collector order is the canonical report order:
// results are reassembled by declaration index before classification, so
// concurrent fetching never changes the final ledger. Pass a nil sink to
// disable incident stream publishing.
func New(
	collectors []Collector,
	resolver *domain.Resolver,
	sim domain.Similarity,
	store LedgerStore,
	sink IncidentSink,
	logger *slog.Logger,
	metrics *observability.Metrics,
	mergeThreshold int,
) *Pipeline {
	return &Pipeline{
		collectors:     collectors,
		resolver:       resolver,
		sim:            sim,
		store:          store,
		sink:           sink,
		logger:         logger,
		metrics:        metrics,
		mergeThreshold: mergeThreshold,
	}
}

// CheckReadiness returns nil once at least one run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no ingestion run has completed yet")
	}
	return nil
}

// Run executes one complete batch: the ledger is read once, reconciled with
// the collected batch, and written once.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	reports := p.collect(ctx)
	p.logger.Info("collected candidate reports", "count", len(reports))

	batch := p.buildIncidents(reports)

	deduped := domain.Dedupe(batch, p.sim, p.mergeThreshold)
	p.metrics.BatchCollapsed.Add(float64(len(batch) - len(deduped)))

	stored, err := p.store.Load(ctx)
	if err != nil {
		return err
	}

	result := domain.Merge(stored.Incidents, deduped, p.sim, p.mergeThreshold)
	p.metrics.LedgerAppended.Add(float64(result.Appended))
	p.metrics.LedgerUpdated.Add(float64(len(result.Touched) - result.Appended))
	p.metrics.LedgerSize.Set(float64(len(result.Incidents)))

	out := domain.Ledger{
		GeneratedUTC: time.Now().UTC().Truncate(time.Second),
		Incidents:    result.Incidents,
	}
	if err := p.store.Save(ctx, out); err != nil {
		return err
	}

	p.publish(ctx, result)

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastRunTimestamp.SetToCurrentTime()
	p.ready.Store(true)
	p.logger.Info("run complete",
		"reports", len(reports),
		"batch", len(batch),
		"after_dedupe", len(deduped),
		"appended", result.Appended,
		"updated", len(result.Touched)-result.Appended,
		"ledger_size", len(result.Incidents),
		"duration", time.Since(start),
	)
	return nil
}

// collect fans out to all collectors concurrently and reassembles the
// results in collector-declaration order, then intra-source order. A failing
// source logs a warning and contributes nothing.
func (p *Pipeline) collect(ctx context.Context) []domain.Report {
	results := make([][]domain.Report, len(p.collectors))

	var wg sync.WaitGroup
	for i, c := range p.collectors {
		wg.Add(1)
		go func(idx int, collector Collector) {
			defer wg.Done()
			reports, err := collector.Collect(ctx)
			if err != nil {
				p.logger.Warn("source fetch failed", "source", collector.Name(), "error", err)
				p.metrics.CollectErrors.WithLabelValues(collector.Name()).Inc()
				return
			}
			p.metrics.ReportsCollected.WithLabelValues(collector.Name()).Add(float64(len(reports)))
			results[idx] = reports
		}(i, c)
	}
	wg.Wait()

	var all []domain.Report
	for _, reports := range results {
		all = append(all, reports...)
	}
	return all
}

// buildIncidents classifies and resolves each report, dropping the
// unresolvable ones silently (dropped reports are not errors).
func (p *Pipeline) buildIncidents(reports []domain.Report) []domain.Incident {
	var incidents []domain.Incident
	for _, report := range reports {
		kind, ok := domain.Classify(report.Title)
		if !ok {
			p.metrics.ReportsDropped.WithLabelValues("no_asset_type").Inc()
			continue
		}
		asset, ok := p.resolver.Resolve(report, kind)
		if !ok {
			p.metrics.ReportsDropped.WithLabelValues("no_asset_match").Inc()
			continue
		}
		incidents = append(incidents, domain.NewIncident(report, asset))
		p.metrics.IncidentsBuilt.Inc()
	}
	return incidents
}

// publish sends the run's created/updated incidents to the stream sink, if
// one is configured.
func (p *Pipeline) publish(ctx context.Context, result domain.MergeResult) {
	if p.sink == nil || len(result.Touched) == 0 {
		return
	}
	changed := make([]domain.Incident, 0, len(result.Touched))
	for _, i := range result.Touched {
		changed = append(changed, result.Incidents[i])
	}
	if err := p.sink.PublishBatch(ctx, changed); err != nil {
		p.logger.Warn("incident stream publish failed", "error", err, "count", len(changed))
		p.metrics.SinkErrors.Inc()
		return
	}
	p.metrics.SinkPublished.Add(float64(len(changed)))
}
