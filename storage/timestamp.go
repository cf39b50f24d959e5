package storage

import (
	"time"

	"github.com/amonks/td/todo"
)

// TimestampLayout is the on-disk form of every timestamp: UTC ISO-8601 with
// millisecond precision, e.g. 2024-01-15T10:30:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC 3339 timestamp, with or without fractional
// seconds, and returns it in UTC at millisecond precision.
func ParseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return todo.Millis(t), nil
}
