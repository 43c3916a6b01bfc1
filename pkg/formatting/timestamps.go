package formatting

import (
	"fmt"
	"time"
)

// CompactLayout is the minute-resolution timestamp layout used by the
// verification engine API (YYYYMMDDHHMM).
const CompactLayout = "200601021504"

// FormatCompact renders t in UTC as a compact YYYYMMDDHHMM string.
func FormatCompact(t time.Time) string {
	return t.UTC().Format(CompactLayout)
}

// ParseCompact parses a compact YYYYMMDDHHMM string as a UTC timestamp.
func ParseCompact(s string) (time.Time, error) {
	t, err := time.ParseInLocation(CompactLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid compact timestamp %q: %w", s, err)
	}
	return t, nil
}

// FormatCompactRange renders a start/end pair as compact timestamp strings.
// Zero times render as empty strings so open-ended ranges pass through.
func FormatCompactRange(start, end time.Time) (string, string) {
	var s, e string
	if !start.IsZero() {
		s = FormatCompact(start)
	}
	if !end.IsZero() {
		e = FormatCompact(end)
	}
	return s, e
}
