package domain

import (
	"math"
	"strings"
)

// tierOnePublishers is the reputable-outlet allowlist used for evidence
// tiering. Matching is a case-insensitive substring check against the
// concatenated publisher list, so short entries like "ap" also catch
// "apnews.com".
var tierOnePublishers = []string{
	"reuters", "associated press", "ap", "afp", "ansa",
	"bbc", "dr", "nrk", "lsm", "pap", "nyt",
}

// EvidenceStrength tiers an incident's sourcing: 0 with no sources, 2 when
// any publisher matches the tier-one allowlist, else 1.
func EvidenceStrength(sources []Source) int {
	if len(sources) == 0 {
		return 0
	}
	var b strings.Builder
	for _, src := range sources {
		b.WriteString(strings.ToLower(src.Publisher))
		b.WriteString(" ")
	}
	pubs := b.String()
	for _, outlet := range tierOnePublishers {
		if strings.Contains(pubs, outlet) {
			return 2
		}
	}
	return 1
}

// categoryBase weights operational impact per incident category. Unknown
// categories score like sightings.
var categoryBase = map[string]float64{
	CategoryClosure:   3,
	CategoryDiversion: 3,
	CategoryLockdown:  2,
	CategorySighting:  1,
	CategoryNavwarn:   1,
}

// Severity computes the 1-5 severity score:
// categoryBase + min(2, duration_min/120) + assetWeight, rounded
// (half away from zero) and clamped to [1,5]. A nil or zero duration
// contributes no bonus.
func Severity(assetType AssetType, category string, durationMin *int) int {
	base, ok := categoryBase[category]
	if !ok {
		base = 1
	}

	bonus := 0.0
	if durationMin != nil && *durationMin > 0 {
		bonus = math.Min(2.0, float64(*durationMin)/120.0)
	}

	weight := 1.0
	if assetType == AssetAirport {
		weight = 1.5
	}

	raw := base + bonus + weight
	score := int(math.Round(raw))
	if score < 1 {
		return 1
	}
	if score > 5 {
		return 5
	}
	return score
}
