package docs

import (
	"context"

	"github.com/formaplus/docgen/internal/recordstore"
	"github.com/formaplus/docgen/internal/schedule"
)

// sessionContext gathers the session-level fields shared by every document
// type: program curriculum, date range derived from the half-days and the
// venue line. The program and half-days are optional relations; the session
// itself is not. The raw session record rides along so callers needing
// scalar session fields do not fetch it a second time.
func (a *assembler) sessionContext(ctx context.Context, sessionID string) (Data, []schedule.HalfDay, recordstore.Record, error) {
	srec, err := a.fetchNormalized(ctx, CollectionSessions, sessionID, nil)
	if err != nil {
		return nil, nil, recordstore.Record{}, err
	}

	var prog recordstore.Record
	if progID := srec.FirstRef(FieldProgram); progID != "" {
		prog, err = a.fetchNormalized(ctx, CollectionPrograms, progID, ProgramMarkupFields)
		if err != nil {
			a.appLogger.Warn("Assembler", "Program unavailable: session=%s err=%v", sessionID, err)
			prog = recordstore.Record{Fields: map[string]any{}}
		}
	}

	halfRecs := a.relatedList(ctx, schedule.CollectionHalfDays, sessionFilter(sessionID), schedule.FieldStart)
	halfDays := make([]schedule.HalfDay, 0, len(halfRecs))
	for _, rec := range halfRecs {
		halfDays = append(halfDays, schedule.HalfDayFromRecord(rec))
	}

	first, last := schedule.SessionBounds(halfDays)

	data := Data{
		"session_numero":      srec.Str(FieldSessionNumber),
		"session_dates":       schedule.FormatDateRange(first, last),
		"session_lieu":        schedule.FormatWhere(srec.Strings(FieldLocations), srec.Strings(FieldAddresses)),
		"programme_intitule":  prog.Str(FieldProgramTitle),
		"programme_duree":     prog.Str(FieldProgramLength),
		"programme_objectifs": prog.Str(FieldObjectives),
		"programme_contenu":   prog.Str(FieldCurriculum),
		"programme_prerequis": prog.Str(FieldPrerequisites),
	}
	return data, halfDays, srec, nil
}
