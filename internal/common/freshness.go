package common

import "time"

// IsFresh reports whether a timestamp taken at updated is still inside ttl at now.
// A zero timestamp is never fresh. The boundary is exclusive: now-updated == ttl is stale.
func IsFresh(updated, now time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return now.Sub(updated) < ttl
}

// UnixMilli converts a time to epoch milliseconds, the persisted timestamp unit.
func UnixMilli(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMilli converts epoch milliseconds back to a UTC time.
func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
