package domain

// Report is a raw observation from a report source, normalized by the
// collecting adapter. Ephemeral: produced, consumed, and discarded within a
// single run.
type Report struct {
	Title     string
	URL       string
	Publisher string
	Language  string
	// Published is the source-supplied publication timestamp, passed through
	// verbatim (formats vary by source and are not interpreted by the
	// pipeline; it surfaces as evidence.sources[].first_seen).
	Published string
	// Source names the collector that produced the report, for logs/metrics.
	Source string
}
