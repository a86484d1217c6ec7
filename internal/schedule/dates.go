package schedule

import (
	"fmt"
	"time"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var frenchDays = [...]string{
	"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi",
}

// FormatDayLong renders a date as printed on the documents: "lundi 2 mars 2026".
func FormatDayLong(t time.Time) string {
	t = t.In(parisLocation())
	return fmt.Sprintf("%s %d %s %d", frenchDays[t.Weekday()], t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// FormatDay renders a date without the weekday: "2 mars 2026".
func FormatDay(t time.Time) string {
	t = t.In(parisLocation())
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// FormatDateRange renders a session's span: "le 2 mars 2026" for a single day,
// "du 2 mars 2026 au 4 mars 2026" otherwise.
func FormatDateRange(start, end time.Time) string {
	if start.IsZero() {
		return ""
	}
	loc := parisLocation()
	if end.IsZero() || start.In(loc).Format("2006-01-02") == end.In(loc).Format("2006-01-02") {
		return "le " + FormatDay(start)
	}
	return "du " + FormatDay(start) + " au " + FormatDay(end)
}

// FormatClock renders a time of day as "9h30".
func FormatClock(t time.Time) string {
	t = t.In(parisLocation())
	return fmt.Sprintf("%dh%02d", t.Hour(), t.Minute())
}
