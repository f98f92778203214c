package domain

import "strings"

// assetKey is the dedup/merge grouping key: asset type and name, nothing
// stronger.
type assetKey struct {
	typ  AssetType
	name string
}

// absorb folds a duplicate incident into its representative: last_update_utc
// advances to the newer value, evidence strength takes the max, and the
// duplicate's sources are appended wholesale.
func absorb(dst *Incident, src Incident) {
	if src.LastUpdateUTC.After(dst.LastUpdateUTC) {
		dst.LastUpdateUTC = src.LastUpdateUTC
	}
	if src.Evidence.Strength > dst.Evidence.Strength {
		dst.Evidence.Strength = src.Evidence.Strength
	}
	dst.Evidence.Sources = append(dst.Evidence.Sources, src.Evidence.Sources...)
}

// narrativeMatch scores two narratives case-insensitively against the merge
// threshold.
func narrativeMatch(sim Similarity, a, b string, threshold int) bool {
	return sim.Score(strings.ToLower(a), strings.ToLower(b)) >= threshold
}

// Dedupe collapses near-duplicate incidents within a batch, in input order.
// The first incident seen for an asset key is kept as the representative;
// later incidents with the same key merge into it when their narratives are
// similar enough, and otherwise survive as distinct incidents under the same
// asset (multiple concurrent incidents per asset are allowed).
func Dedupe(incidents []Incident, sim Similarity, threshold int) []Incident {
	results := make([]Incident, 0, len(incidents))
	representative := make(map[assetKey]int)

	for _, incident := range incidents {
		key := assetKey{incident.Asset.Type, incident.Asset.Name}
		idx, ok := representative[key]
		if !ok {
			representative[key] = len(results)
			results = append(results, incident)
			continue
		}
		if narrativeMatch(sim, results[idx].Details.Narrative, incident.Details.Narrative, threshold) {
			absorb(&results[idx], incident)
		} else {
			results = append(results, incident)
		}
	}
	return results
}
