package domain

import (
	"regexp"
	"strings"
)

var (
	// airportRe and harbourRe are disjoint whole-word keyword sets. Matching
	// is done on lower-cased text, so the patterns stay lower-case.
	airportRe = regexp.MustCompile(`\b(airport|airfield|runway|flight|terminal|arrival|departure)\b`)
	harbourRe = regexp.MustCompile(`\b(port|harbour|harbor|ferry|quay|berth|vts|pilotage|dock)\b`)
)

// Classify maps free report text to an asset type. Airport keywords take
// priority when both sets match. The second return is false when neither
// matches; such reports are dropped from the pipeline.
func Classify(text string) (AssetType, bool) {
	hay := strings.ToLower(text)
	if airportRe.MatchString(hay) {
		return AssetAirport, true
	}
	if harbourRe.MatchString(hay) {
		return AssetHarbour, true
	}
	return "", false
}
