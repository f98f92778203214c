package domain

import "slices"

// MergeResult reports what a ledger merge did, for metrics and downstream
// publication of changed entries.
type MergeResult struct {
	// Incidents is the merged ledger in stored order, existing entries first.
	Incidents []Incident
	// Touched indexes into Incidents: entries updated or appended this merge.
	Touched []int
	// Appended counts new entries (the rest of Touched were in-place updates).
	Appended int
}

// Merge reconciles a deduplicated batch against the stored ledger. For each
// new incident the existing entries are scanned in stored order; the first
// entry with the same asset key and a narrative similarity at or above the
// threshold absorbs it (first match wins, not best match). Unmatched
// incidents are appended. The input slices are not mutated.
//
// The scan is O(existing x new) with no index, which is fine at ledger sizes
// in the low thousands.
func Merge(existing, batch []Incident, sim Similarity, threshold int) MergeResult {
	combined := slices.Clone(existing)
	touched := make(map[int]bool)
	appended := 0

	for _, incident := range batch {
		matched := false
		for i := range combined {
			if combined[i].Asset.Type != incident.Asset.Type {
				continue
			}
			if combined[i].Asset.Name != incident.Asset.Name {
				continue
			}
			if !narrativeMatch(sim, combined[i].Details.Narrative, incident.Details.Narrative, threshold) {
				continue
			}
			// Clone before the first mutation so callers' slices stay intact.
			if !touched[i] {
				combined[i].Evidence.Sources = slices.Clone(combined[i].Evidence.Sources)
			}
			absorb(&combined[i], incident)
			touched[i] = true
			matched = true
			break
		}
		if !matched {
			combined = append(combined, incident)
			touched[len(combined)-1] = true
			appended++
		}
	}

	indices := make([]int, 0, len(touched))
	for i := range touched {
		indices = append(indices, i)
	}
	slices.Sort(indices)

	return MergeResult{Incidents: combined, Touched: indices, Appended: appended}
}
