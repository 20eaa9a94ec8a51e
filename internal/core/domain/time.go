package domain

import "time"

// epochSecondsCutoff separates epoch seconds from epoch milliseconds. Values
// below it are read as seconds. Ambiguous for dates far from the present.
const epochSecondsCutoff = 10_000_000_000

// NormalizeEpoch returns v in epoch milliseconds.
func NormalizeEpoch(v int64) int64 {
	if v > -epochSecondsCutoff && v < epochSecondsCutoff {
		return v * 1000
	}
	return v
}

// EpochTime converts a backend timestamp in either seconds or milliseconds.
func EpochTime(v int64) time.Time {
	return time.UnixMilli(NormalizeEpoch(v))
}

// MillisPtr returns a pointer to t in epoch milliseconds.
func MillisPtr(t time.Time) *int64 {
	ms := t.UnixMilli()
	return &ms
}
