package utils

import (
	"fmt"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 (fractional seconds optional). Zone-less
// date-times and bare dates are read as UTC.
func ParseTimestamp(ts string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q is not ISO-8601", ts)
}

// WithinWindow reports whether ts lies in [now-window, now+window].
func WithinWindow(ts, now time.Time, window time.Duration) bool {
	return !ts.Before(now.Add(-window)) && !ts.After(now.Add(window))
}

// CheckFreshness parses ts and checks it against the window around now.
func CheckFreshness(ts string, now time.Time, window time.Duration) (bool, error) {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return false, err
	}
	return WithinWindow(t, now, window), nil
}
