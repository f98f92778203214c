// Package domain models drone incident reports near European airports and harbours.
//
// # Data Sources
//
// Raw reports come from two kinds of open sources: the GDELT DOC 2.0 keyword
// search API (JSON articles with title, url, sourceDomain, language, seendate)
// and syndicated RSS/Atom feeds. Adapters normalize both into [Report] before
// anything in this package touches them.
//
// # Reference Gazetteer
//
// Assets are fixed geographic points of interest: airports (from an
// OurAirports-style CSV, carrying IATA/ICAO codes) and harbours (from an
// Overpass GeoJSON export, carrying OSM ids). The gazetteer is loaded once per
// run into an immutable [Gazetteer] value and passed explicitly to the
// resolver; there is no package-level registry.
//
// # Classification & Resolution
//
// A report is first classified by whole-word keyword match into an asset type:
//
//	airport: airport, airfield, runway, flight, terminal, arrival, departure
//	harbour: port, harbour, harbor, ferry, quay, berth, vts, pilotage, dock
//
// Airport keywords win when both sets match. Reports matching neither are
// dropped, silently.
//
// Resolution to a concrete asset tries an exact IATA code first for airports:
// any standalone 3-uppercase-letter token in the title that equals a known
// IATA code resolves immediately, first token in scan order winning. Otherwise
// (and always for harbours) the title is fuzzy-matched against asset names
// with a partial-ratio score; the strictly highest score at or above the
// resolve threshold (default 82) wins, first candidate winning ties.
//
// # Scoring
//
// Evidence strength is a 0-2 tier derived from source publishers: 2 when any
// publisher matches the tier-one outlet allowlist, 1 otherwise, 0 with no
// sources at all. Severity is a 1-5 integer:
//
//	clamp(round(categoryBase + min(2, duration_min/120) + assetWeight))
//
//	categoryBase: closure=3 diversion=3 lockdown=2 sighting=1 navwarn=1
//	assetWeight:  airport=1.5 harbour=1.0
//
// # Deduplication & Merge
//
// Incident identity is deliberately fuzzy: two incidents are the same logical
// incident only when asset type and name are identical and their narratives
// score at or above the merge threshold (default 70) under the configured
// [Similarity]. There is no dedup on URL or geographic proximity. Intra-batch
// dedup keeps the first incident per asset key as representative; the ledger
// merge is a first-match-wins linear scan over stored entries. Matched
// incidents absorb the newer last_update_utc, the max evidence strength, and
// all sources (duplicate sources across merges are tolerated, not pruned).
package domain
