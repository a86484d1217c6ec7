package schedule

import (
	"sort"
	"time"
)

// paris is resolved once at init; a lazy assignment would race between
// concurrent requests.
var paris = loadParisLocation()

func loadParisLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.FixedZone("CET", 3600)
	}
	return loc
}

func parisLocation() *time.Location {
	return paris
}

// Slot is one rendered roster cell: a half-day's time window.
type Slot struct {
	Start time.Time
	End   time.Time
}

// RosterDay is one calendar date of an attendance-sheet roster. Morning is the
// first chronological slot of the date, Afternoon the second. Any further
// slot on the same date is dropped; a session day is expected to hold one AM
// and one PM block at most.
type RosterDay struct {
	Date      time.Time
	DateLabel string
	Morning   *Slot
	Afternoon *Slot
}

// BuildRoster groups half-days by calendar date in the Paris timezone, sorts
// within each date by start time and labels the first two slots morning and
// afternoon.
func BuildRoster(halfDays []HalfDay) []RosterDay {
	loc := parisLocation()

	byDate := make(map[string][]HalfDay)
	for _, hd := range halfDays {
		if hd.Start.IsZero() {
			continue
		}
		key := hd.Start.In(loc).Format("2006-01-02")
		byDate[key] = append(byDate[key], hd)
	}

	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	days := make([]RosterDay, 0, len(keys))
	for _, key := range keys {
		slots := byDate[key]
		sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })

		date, _ := time.ParseInLocation("2006-01-02", key, loc)
		day := RosterDay{Date: date, DateLabel: FormatDayLong(date)}

		if len(slots) > 0 {
			day.Morning = &Slot{Start: slots[0].Start.In(loc), End: slots[0].End.In(loc)}
		}
		if len(slots) > 1 {
			day.Afternoon = &Slot{Start: slots[1].Start.In(loc), End: slots[1].End.In(loc)}
		}
		days = append(days, day)
	}
	return days
}

// SessionBounds returns the earliest start and latest end across half-days.
func SessionBounds(halfDays []HalfDay) (time.Time, time.Time) {
	var first, last time.Time
	for _, hd := range halfDays {
		if hd.Start.IsZero() {
			continue
		}
		if first.IsZero() || hd.Start.Before(first) {
			first = hd.Start
		}
		if last.IsZero() || hd.End.After(last) {
			last = hd.End
		}
	}
	return first, last
}
