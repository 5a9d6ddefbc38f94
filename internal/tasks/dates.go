package tasks

import (
	"strings"
	"time"
)

// layouts accepted from the backend and from form inputs. Layouts without a
// zone are interpreted in the server's local time.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses s with the known layouts.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsOverdueAt reports whether the date is strictly before now. Empty or
// unparseable dates are never overdue.
func IsOverdueAt(value string, now time.Time) bool {
	t, ok := ParseTime(value)
	if !ok {
		return false
	}
	return t.Before(now)
}

// NormalizeDueDate converts a form value to the ISO-8601 UTC form the
// backend expects. Empty or unparseable input yields "".
func NormalizeDueDate(value string) string {
	t, ok := ParseTime(value)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
