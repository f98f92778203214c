package domain

import "time"

// Categories form a closed set; ExtractCategory never returns anything else.
const (
	CategoryClosure   = "closure"
	CategoryDiversion = "diversion"
	CategoryLockdown  = "lockdown"
	CategorySighting  = "sighting"
	CategoryNavwarn   = "navwarn"
)

// Incident statuses.
const (
	StatusUnconfirmed = "unconfirmed"
	StatusActive      = "active"
	StatusResolved    = "resolved"
)

// Attribution levels.
const (
	AttributionNone      = "none"
	AttributionSuspected = "suspected"
	AttributionClaimed   = "claimed"
)

// Source records one piece of evidence attached to an incident. The sources
// list is append-only; duplicates accumulated across merges are tolerated.
type Source struct {
	URL       string `json:"url"`
	Publisher string `json:"publisher"`
	Lang      string `json:"lang,omitempty"`
	FirstSeen string `json:"first_seen,omitempty"`
}

// Details describes what happened at the asset.
type Details struct {
	Category           string   `json:"category"`
	Status             string   `json:"status"`
	DurationMin        *int     `json:"duration_min"`
	UAVCount           *int     `json:"uav_count"`
	UAVCharacteristics string   `json:"uav_characteristics,omitempty"`
	Response           []string `json:"response"`
	Narrative          string   `json:"narrative"`
}

// Evidence aggregates sourcing for an incident. Strength is monotonically
// non-decreasing across merges of the same logical incident.
type Evidence struct {
	Strength       int      `json:"strength"`
	Attribution    string   `json:"attribution"`
	Sources        []Source `json:"sources"`
	NotamNavtexIDs []string `json:"notam_navtex_ids"`
}

// Scores holds derived operational-impact numbers.
type Scores struct {
	Severity    int `json:"severity"`
	RiskRadiusM int `json:"risk_radius_m"`
}

// Incident is the persisted unit of record. The JSON field names are a wire
// contract with the web front end and the notifier; renaming one breaks them
// silently (missing-key, not a type error).
type Incident struct {
	ID            string    `json:"id"`
	FirstSeenUTC  time.Time `json:"first_seen_utc"`
	LastUpdateUTC time.Time `json:"last_update_utc"`
	Asset         Asset     `json:"asset"`
	Details       Details   `json:"incident"`
	Evidence      Evidence  `json:"evidence"`
	Scores        Scores    `json:"scores"`
	Tags          []string  `json:"tags"`
}

// Ledger is the persisted, cumulative incident collection. Read once at the
// start of a run, written once at the end.
type Ledger struct {
	GeneratedUTC time.Time  `json:"generated_utc"`
	Incidents    []Incident `json:"incidents"`
}
