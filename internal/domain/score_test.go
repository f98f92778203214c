package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvidenceStrength(t *testing.T) {
	t.Run("no sources", func(t *testing.T) {
		assert.Equal(t, 0, EvidenceStrength(nil))
		assert.Equal(t, 0, EvidenceStrength([]Source{}))
	})

	t.Run("tier-one publisher", func(t *testing.T) {
		sources := []Source{{URL: "https://example.com/a", Publisher: "Reuters"}}
		assert.Equal(t, 2, EvidenceStrength(sources))
	})

	t.Run("tier-one match is substring and case-insensitive", func(t *testing.T) {
		sources := []Source{{Publisher: "bbc.co.uk"}}
		assert.Equal(t, 2, EvidenceStrength(sources))
	})

	t.Run("any tier-one source lifts the whole set", func(t *testing.T) {
		sources := []Source{
			{Publisher: "smalltownblog.example"},
			{Publisher: "AFP"},
		}
		assert.Equal(t, 2, EvidenceStrength(sources))
	})

	t.Run("unknown publisher", func(t *testing.T) {
		sources := []Source{{Publisher: "obscure-outlet.example"}}
		assert.Equal(t, 1, EvidenceStrength(sources))
	})
}

func TestSeverity(t *testing.T) {
	mins := func(n int) *int { return &n }

	tests := []struct {
		name      string
		assetType AssetType
		category  string
		duration  *int
		want      int
	}{
		// closure(3) + min(2, 180/120)=1.5 + airport 1.5 = 6.0 -> clamp 5
		{"airport closure 180min", AssetAirport, CategoryClosure, mins(180), 5},
		// closure(3) + 0 + airport 1.5 = 4.5 -> round 5
		{"airport closure no duration", AssetAirport, CategoryClosure, nil, 5},
		// closure(3) + 0 + harbour 1.0 = 4.0
		{"harbour closure no duration", AssetHarbour, CategoryClosure, nil, 4},
		// sighting(1) + 0 + harbour 1.0 = 2.0
		{"harbour sighting", AssetHarbour, CategorySighting, nil, 2},
		// sighting(1) + 0 + airport 1.5 = 2.5 -> round 3
		{"airport sighting", AssetAirport, CategorySighting, nil, 3},
		// sighting(1) + min(2, 600/120)=2 + harbour 1.0 = 4.0
		{"duration bonus capped at 2", AssetHarbour, CategorySighting, mins(600), 4},
		// lockdown(2) + 0.5 + airport 1.5 = 4.0
		{"airport lockdown 60min", AssetAirport, CategoryLockdown, mins(60), 4},
		// navwarn(1) + 0 + harbour 1.0 = 2.0
		{"harbour navwarn", AssetHarbour, CategoryNavwarn, nil, 2},
		// unknown category scores like a sighting
		{"unknown category", AssetHarbour, "mystery", nil, 2},
		// zero duration contributes no bonus
		{"zero duration", AssetHarbour, CategorySighting, mins(0), 2},
		// diversion(3) + 2 + airport 1.5 = 6.5 -> clamp 5
		{"airport diversion long", AssetAirport, CategoryDiversion, mins(480), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Severity(tt.assetType, tt.category, tt.duration))
		})
	}
}
