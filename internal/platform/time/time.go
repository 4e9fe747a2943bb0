// Package time holds clock helpers shared by services and repos
package time

import "time"

// Now is the current instant as it will read back from postgres
func Now() time.Time { return Stamp(time.Now()) }

// Stamp drops what timestamptz cannot keep, in-memory and sql repos then agree on equality
func Stamp(t time.Time) time.Time { return t.UTC().Truncate(time.Microsecond) }

// Ptr returns a pointer to t, nil for the zero time
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
