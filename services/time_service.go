package services

import "time"

// Clock supplies message timestamps.
type Clock func() time.Time

// SystemClock returns the current wall-clock time.
func SystemClock() time.Time {
	return time.Now()
}

// FormatTimestamp renders t the way the chat page shows it.
func FormatTimestamp(t time.Time) string {
	return t.Format("15:04")
}
