package schedule

import (
	"time"

	"github.com/formaplus/docgen/internal/recordstore"
)

// Collection and field names of the half-day table in the record store.
const (
	CollectionHalfDays = "Demi-journées"

	FieldStart    = "Début"
	FieldEnd      = "Fin"
	FieldPeriod   = "Période"
	FieldSession  = "Session"
	FieldLocation = "Lieu"
)

const (
	PeriodAM = "AM"
	PeriodPM = "PM"
)

// HalfDay is the scheduling atom: one AM or PM block of a session day.
type HalfDay struct {
	ID        string
	Start     time.Time
	End       time.Time
	Period    string
	SessionID string
	Location  string
}

// HalfDayFromRecord decodes a half-day record. Timestamps are stored as
// RFC 3339 strings; unparseable values yield zero times, which callers treat
// as a defect state rather than an error.
func HalfDayFromRecord(rec recordstore.Record) HalfDay {
	return HalfDay{
		ID:        rec.ID,
		Start:     parseTime(rec.Str(FieldStart)),
		End:       parseTime(rec.Str(FieldEnd)),
		Period:    rec.Str(FieldPeriod),
		SessionID: rec.FirstRef(FieldSession),
		Location:  rec.Str(FieldLocation),
	}
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Complement returns the opposite period tag, or "" for an unknown tag.
func Complement(period string) string {
	switch period {
	case PeriodAM:
		return PeriodPM
	case PeriodPM:
		return PeriodAM
	}
	return ""
}
