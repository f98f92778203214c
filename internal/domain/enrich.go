package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// durationHoursRe and durationMinutesRe pull a stated disruption length
	// out of headline text, e.g. "closed for 3 hours", "halted for 45 min".
	durationHoursRe   = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)\b`)
	durationMinutesRe = regexp.MustCompile(`\b(\d+)\s*(?:minutes?|mins?)\b`)

	// uavCountRe matches an explicit count before a drone/UAV mention,
	// e.g. "three drones", "2 UAVs".
	uavCountRe = regexp.MustCompile(`\b(\d+)\s+(?:drones|uavs)\b`)
)

// ExtractCategory infers the incident category from report text. Keyword
// precedence: closure beats diversion beats lockdown beats navwarn; anything
// else is a sighting.
func ExtractCategory(text string) string {
	hay := strings.ToLower(text)
	switch {
	case containsAny(hay, "closed", "closure", "shutdown", "suspended", "halted", "grounded"):
		return CategoryClosure
	case containsAny(hay, "divert", "diverted", "diversion", "rerouted"):
		return CategoryDiversion
	case containsAny(hay, "lockdown", "locked down", "evacuat"):
		return CategoryLockdown
	case containsAny(hay, "notam", "navtex", "navigational warning", "airspace restriction"):
		return CategoryNavwarn
	default:
		return CategorySighting
	}
}

// ExtractStatus infers whether the incident is over, ongoing, or merely
// reported. Defaults to unconfirmed: the pipeline aggregates evidence, it
// never confirms anything.
func ExtractStatus(text string) string {
	hay := strings.ToLower(text)
	switch {
	case containsAny(hay, "resolved", "reopened", "resumed", "cleared", "lifted"):
		return StatusResolved
	case containsAny(hay, "ongoing", "continuing", "still closed", "remains closed"):
		return StatusActive
	default:
		return StatusUnconfirmed
	}
}

// ExtractAttribution infers claimed/suspected responsibility from report text.
func ExtractAttribution(text string) string {
	hay := strings.ToLower(text)
	switch {
	case containsAny(hay, "claimed responsibility", "took credit"):
		return AttributionClaimed
	case containsAny(hay, "suspected", "believed to be", "attributed to"):
		return AttributionSuspected
	default:
		return AttributionNone
	}
}

// responseKeywords maps text markers to response-action tags, checked in
// order so the resulting list is deterministic.
var responseKeywords = []struct {
	marker string
	tag    string
}{
	{"police", "police"},
	{"military", "military"},
	{"air force", "air force"},
	{"navy", "navy"},
	{"coast guard", "coast guard"},
	{"fighter", "fighter jets"},
	{"scrambl", "fighter jets"},
	{"air traffic", "atc"},
	{"atc", "atc"},
	{"emergency", "emergency services"},
}

// ExtractResponse lists response-action tags mentioned in the text, without
// duplicates. Empty when nothing is mentioned.
func ExtractResponse(text string) []string {
	hay := strings.ToLower(text)
	var tags []string
	seen := map[string]bool{}
	for _, kw := range responseKeywords {
		if strings.Contains(hay, kw.marker) && !seen[kw.tag] {
			tags = append(tags, kw.tag)
			seen[kw.tag] = true
		}
	}
	return tags
}

// ExtractDuration pulls a stated disruption duration in minutes from the
// text, or nil when none is stated. Hours are preferred over minutes when
// both appear ("closed 2 hours, delays of 30 minutes" reads as 120).
func ExtractDuration(text string) *int {
	hay := strings.ToLower(text)
	if m := durationHoursRe.FindStringSubmatch(hay); m != nil {
		if hours, err := strconv.ParseFloat(m[1], 64); err == nil {
			minutes := int(hours * 60)
			return &minutes
		}
	}
	if m := durationMinutesRe.FindStringSubmatch(hay); m != nil {
		if minutes, err := strconv.Atoi(m[1]); err == nil {
			return &minutes
		}
	}
	return nil
}

// ExtractUAVCount pulls an explicit drone count from the text, or nil when
// none is stated.
func ExtractUAVCount(text string) *int {
	hay := strings.ToLower(text)
	if m := uavCountRe.FindStringSubmatch(hay); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return &n
		}
	}
	return nil
}

// ExtractUAVCharacteristics notes swarm/multiple-drone phrasing. Empty when
// the text says nothing about the aircraft.
func ExtractUAVCharacteristics(text string) string {
	hay := strings.ToLower(text)
	switch {
	case strings.Contains(hay, "swarm"):
		return "swarm"
	case containsAny(hay, "multiple drones", "several drones"):
		return "multiple"
	default:
		return ""
	}
}

func containsAny(hay string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(hay, n) {
			return true
		}
	}
	return false
}
