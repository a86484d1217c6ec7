package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/recordstore"
)

// mirrorDuration is the fixed length of a derived half-day; mirrorGap is the
// offset from the source half-day's boundary.
const (
	mirrorDuration = 3*time.Hour + 30*time.Minute
	mirrorGap      = time.Hour
)

// MirrorWindow derives the complementary half-day window from a source block.
// An AM source mirrors forward from its start; a PM source mirrors backward
// from its end.
func MirrorWindow(start, end time.Time, period string) (time.Time, time.Time) {
	if period == PeriodAM {
		mirrorStart := start.Add(mirrorGap)
		return mirrorStart, mirrorStart.Add(mirrorDuration)
	}
	mirrorEnd := end.Add(-mirrorGap)
	return mirrorEnd.Add(-mirrorDuration), mirrorEnd
}

// EnsureMirror fills the complementary AM/PM slot of a session day when it is
// genuinely absent. It never touches an existing sibling, so re-running once a
// sibling exists is a no-op. Returns true when a record was created.
func EnsureMirror(ctx context.Context, gw recordstore.Gateway, hd HalfDay, appLogger *logger.Logger) (bool, error) {
	const component = "Mirror"

	complement := Complement(hd.Period)
	if complement == "" {
		return false, fmt.Errorf("half-day %s has unknown period %q", hd.ID, hd.Period)
	}

	siblings, err := gw.FetchCollection(ctx, CollectionHalfDays, recordstore.ListOptions{
		FilterFormula: fmt.Sprintf("SEARCH('%s', ARRAYJOIN({%s}))", hd.SessionID, FieldSession),
	})
	if err != nil {
		return false, err
	}

	day := hd.Start.In(parisLocation()).Format("2006-01-02")
	for _, rec := range siblings {
		sibling := HalfDayFromRecord(rec)
		if sibling.Period != complement {
			continue
		}
		if sibling.Start.In(parisLocation()).Format("2006-01-02") == day {
			appLogger.Debug(component, "Complementary slot already present: session=%s date=%s period=%s", hd.SessionID, day, complement)
			return false, nil
		}
	}

	mirrorStart, mirrorEnd := MirrorWindow(hd.Start, hd.End, hd.Period)
	fields := map[string]any{
		FieldStart:   mirrorStart.Format(time.RFC3339),
		FieldEnd:     mirrorEnd.Format(time.RFC3339),
		FieldPeriod:  complement,
		FieldSession: []string{hd.SessionID},
	}
	if hd.Location != "" {
		fields[FieldLocation] = hd.Location
	}

	created, err := gw.CreateOne(ctx, CollectionHalfDays, fields)
	if err != nil {
		return false, err
	}

	appLogger.Info(component, "Created mirror half-day: session=%s date=%s period=%s id=%s", hd.SessionID, day, complement, created.ID)
	return true, nil
}
