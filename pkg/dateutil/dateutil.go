package dateutil

import "time"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// Today returns today's date (start of day, host-local clock)
func Today() time.Time {
	return StartOfDay(time.Now())
}

// YearMonth returns the month key in YYYYMM format
// Example: 2025-01-15 -> "202501"
func YearMonth(date time.Time) string {
	return date.Format("200601")
}

// DayKey returns the day key in MMDD format
// Example: 2025-01-15 -> "0115"
func DayKey(date time.Time) string {
	return date.Format("0102")
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// FormatDate formats date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

// FormatISO8601 formats date to ISO 8601 format with timezone
// Example: 2025-01-15T10:00:00.000+0000
func FormatISO8601(date time.Time) string {
	return date.Format("2006-01-02T15:04:05.000-0700")
}
