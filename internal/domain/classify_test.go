package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    AssetType
		matched bool
	}{
		{"airport keyword", "Drone spotted over the airport perimeter", AssetAirport, true},
		{"runway keyword", "Runway operations suspended after drone report", AssetAirport, true},
		{"harbour keyword", "Ferry service halted after drone near the quay", AssetHarbour, true},
		{"harbor US spelling", "UAV seen above the harbor entrance", AssetHarbour, true},
		{"both keyword sets prefer airport", "Airport and port both disrupted by drones", AssetAirport, true},
		{"case insensitive", "RUNWAY closed at HEATHROW", AssetAirport, true},
		{"no keywords", "Drone flies over a wheat field", "", false},
		{"keyword only as substring", "Transport ministry reports on drone imports", "", false},
		{"empty text", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.text)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
