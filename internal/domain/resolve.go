package domain

import (
	"regexp"
	"strings"
)

// iataRe matches standalone 3-uppercase-letter tokens in a title, the shape
// of IATA airport codes ("Drone halts LHR flights" -> LHR).
var iataRe = regexp.MustCompile(`\b([A-Z]{3})\b`)

// Resolver matches classified reports to concrete gazetteer assets.
type Resolver struct {
	gazetteer Gazetteer
	sim       Similarity
	threshold int
}

// NewResolver creates a resolver over an immutable gazetteer. threshold is
// the minimum fuzzy score (0-100) a name match must reach.
func NewResolver(g Gazetteer, sim Similarity, threshold int) *Resolver {
	return &Resolver{gazetteer: g, sim: sim, threshold: threshold}
}

// Resolve matches a report to a specific asset of the classified type.
// Airports try an exact IATA code first (first code in scan order wins),
// then fall back to fuzzy name matching; harbours go straight to fuzzy.
// The second return is false when nothing clears the threshold; the report
// is dropped.
func (r *Resolver) Resolve(report Report, kind AssetType) (Asset, bool) {
	if kind == AssetAirport {
		if asset, ok := r.matchIATA(report.Title); ok {
			return asset, true
		}
	}
	return r.fuzzyMatch(report.Title, r.gazetteer.Candidates(kind))
}

// matchIATA scans the title for 3-letter uppercase tokens and returns the
// first airport whose IATA code equals one. Exact match wins over any fuzzy
// score, independent of threshold.
func (r *Resolver) matchIATA(title string) (Asset, bool) {
	for _, m := range iataRe.FindAllStringSubmatch(title, -1) {
		code := m[1]
		for _, airport := range r.gazetteer.Airports {
			if airport.IATA != "" && airport.IATA == code {
				return airport, true
			}
		}
	}
	return Asset{}, false
}

// fuzzyMatch selects the candidate with the strictly highest partial-ratio
// score at or above the threshold. Ties keep the first-encountered candidate,
// so iteration order (gazetteer load order) is the tie-break.
func (r *Resolver) fuzzyMatch(title string, candidates []Asset) (Asset, bool) {
	needle := strings.ToLower(title)
	var best Asset
	bestScore := 0
	found := false
	for _, candidate := range candidates {
		score := r.sim.Score(needle, strings.ToLower(candidate.Name))
		if score >= r.threshold && score > bestScore {
			best = candidate
			bestScore = score
			found = true
		}
	}
	return best, found
}
