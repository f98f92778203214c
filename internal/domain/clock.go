package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic
// incident timestamps and IDs.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for incident construction. Pass nil to reset
// to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// nowUTC returns the current time in UTC truncated to seconds, the precision
// the ledger persists.
func nowUTC() time.Time {
	return clock.Now().UTC().Truncate(time.Second)
}
