package ui

import (
	"fmt"
	"time"
)

// DateLayout is how due dates are shown and accepted on the command line.
const DateLayout = "2006-01-02"

// FormatTimeAgo returns a compact age string like "2m ago".
func FormatTimeAgo(then time.Time, now time.Time) string {
	if then.IsZero() {
		return "-"
	}
	return FormatDurationShort(now.Sub(then)) + " ago"
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}

// FormatDue renders a due date relative to now: "-" when unset,
// "2024-03-01 (in 3d)", or "2024-03-01 (2d overdue)".
func FormatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return "-"
	}
	date := due.UTC().Format(DateLayout)
	if due.Before(now) {
		return fmt.Sprintf("%s (%s overdue)", date, FormatDurationShort(now.Sub(*due)))
	}
	return fmt.Sprintf("%s (in %s)", date, FormatDurationShort(due.Sub(now)))
}

// ParseDate accepts a DateLayout day or a full RFC 3339 timestamp. A bare
// day means midnight UTC.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return t.UTC(), nil
}
