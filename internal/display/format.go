package display

import "time"

// FormatHour returns the two-digit hour: 00-23 in 24-hour style, 01-12
// otherwise.
func FormatHour(t time.Time, use24Hour bool) string {
	if use24Hour {
		return t.Format("15")
	}
	return t.Format("03")
}

// FormatMinute returns the zero-padded minute, 00-59.
func FormatMinute(t time.Time) string {
	return t.Format("04")
}

// FormatDay returns the zero-padded day of month, 01-31.
func FormatDay(t time.Time) string {
	return t.Format("02")
}

// FormatCalendarLabel returns the three-letter month abbreviation when
// showMonth is set and the three-letter weekday abbreviation otherwise.
func FormatCalendarLabel(t time.Time, showMonth bool) string {
	if showMonth {
		return t.Format("Jan")
	}
	return t.Format("Mon")
}
