package docs

import (
	"context"
	"fmt"

	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/recordstore"
	"github.com/formaplus/docgen/internal/schedule"
)

// EmargementDoc assembles a session's attendance sheet: one column per
// half-day grouped morning/afternoon by date, one row per enrolled trainee.
type EmargementDoc struct {
	assembler
	template string
}

func NewEmargementDoc(gw recordstore.Gateway, appLogger *logger.Logger, template string) *EmargementDoc {
	return &EmargementDoc{assembler: assembler{gw: gw, appLogger: appLogger}, template: template}
}

func (d *EmargementDoc) Name() string         { return "emargement" }
func (d *EmargementDoc) TemplateFile() string { return d.template }

func (d *EmargementDoc) Assemble(ctx context.Context, req Request) ([]Output, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = req.RecordID
	}
	if sessionID == "" {
		return nil, &recordstore.RecordNotFoundError{Collection: CollectionSessions, RecordID: sessionID}
	}

	data, halfDays, _, err := d.sessionContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	days := schedule.BuildRoster(halfDays)
	rosterDays := make([]map[string]any, 0, len(days))
	for _, day := range days {
		entry := map[string]any{
			"date":       day.DateLabel,
			"matin":      "",
			"apres_midi": "",
		}
		if day.Morning != nil {
			entry["matin"] = schedule.FormatClock(day.Morning.Start) + " - " + schedule.FormatClock(day.Morning.End)
		}
		if day.Afternoon != nil {
			entry["apres_midi"] = schedule.FormatClock(day.Afternoon.Start) + " - " + schedule.FormatClock(day.Afternoon.End)
		}
		rosterDays = append(rosterDays, entry)
	}
	data["jours"] = rosterDays

	enrollRecs := d.relatedList(ctx, CollectionEnrollments, sessionFilter(sessionID), FieldTraineeName)
	trainees := make([]map[string]any, 0, len(enrollRecs))
	for _, er := range enrollRecs {
		trainees = append(trainees, map[string]any{
			"nom":    er.Str(FieldTraineeName),
			"entite": er.Str("Entité"),
		})
	}
	data["stagiaires"] = trainees

	filename := fmt.Sprintf("Emargement %s - %s.docx", data["session_numero"], data["programme_intitule"])
	return []Output{{Filename: filename, Data: data}}, nil
}
