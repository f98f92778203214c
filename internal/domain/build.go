package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// defaultRiskRadiusM is the advisory radius attached to every new incident.
const defaultRiskRadiusM = 1000

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug normalizes an asset name into an ID-safe token:
// "Copenhagen Airport (Kastrup)" -> "copenhagen-airport-kastrup".
func Slug(value string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(s, "-")
}

// NewIncident builds a fresh incident from a resolved report. The narrative
// is the report title; category, status, response actions, duration, and UAV
// details are inferred from it. IDs are synthetic but stable for the run:
// <type>-<slug(name)>-<unix seconds>.
func NewIncident(report Report, asset Asset) Incident {
	now := nowUTC()

	category := ExtractCategory(report.Title)
	duration := ExtractDuration(report.Title)

	sources := []Source{{
		URL:       report.URL,
		Publisher: report.Publisher,
		Lang:      report.Language,
		FirstSeen: report.Published,
	}}

	return Incident{
		ID:            fmt.Sprintf("%s-%s-%d", asset.Type, Slug(asset.Name), now.Unix()),
		FirstSeenUTC:  now,
		LastUpdateUTC: now,
		Asset:         asset,
		Details: Details{
			Category:           category,
			Status:             ExtractStatus(report.Title),
			DurationMin:        duration,
			UAVCount:           ExtractUAVCount(report.Title),
			UAVCharacteristics: ExtractUAVCharacteristics(report.Title),
			Response:           ExtractResponse(report.Title),
			Narrative:          report.Title,
		},
		Evidence: Evidence{
			Strength:       EvidenceStrength(sources),
			Attribution:    ExtractAttribution(report.Title),
			Sources:        sources,
			NotamNavtexIDs: []string{},
		},
		Scores: Scores{
			Severity:    Severity(asset.Type, category, duration),
			RiskRadiusM: defaultRiskRadiusM,
		},
		Tags: []string{category, string(asset.Type)},
	}
}
