package models

import (
	"fmt"
	"time"
)

// Persisted records hold timestamps as RFC3339 text while runtime types use
// time.Time. These two functions are the only encode/decode point between
// the representations.

// FormatTime encodes a timestamp for persistence. Sub-second precision is
// kept so records written in the same second still order correctly.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime decodes a persisted timestamp. An empty string decodes to the
// zero time so partially written legacy records still load.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
