package state

import (
	"testing"
	"time"
)

// FixClock pins the package clock to now for the duration of t.
func FixClock(t testing.TB, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}
