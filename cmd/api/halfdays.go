package main

import (
	"fmt"
	"net/http"

	"github.com/formaplus/docgen/internal/recordstore"
	"github.com/formaplus/docgen/internal/response"
	"github.com/formaplus/docgen/internal/schedule"
)

type mirrorSummary struct {
	HalfDays int `json:"half_days"`
	Created  int `json:"created"`
}

type MirrorHalfDaysResponse = response.APIResponse[mirrorSummary]

// handleMirrorHalfDays walks a session's half-days and fills every absent
// complementary AM/PM slot. Safe to call repeatedly.
func (app *application) handleMirrorHalfDays(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing session parameter")
		return
	}

	records, err := app.gateway.FetchCollection(r.Context(), schedule.CollectionHalfDays, recordstore.ListOptions{
		FilterFormula: fmt.Sprintf("SEARCH('%s', ARRAYJOIN({%s}))", sessionID, schedule.FieldSession),
		SortField:     schedule.FieldStart,
	})
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	summary := mirrorSummary{HalfDays: len(records)}
	for _, rec := range records {
		created, err := schedule.EnsureMirror(r.Context(), app.gateway, schedule.HalfDayFromRecord(rec), app.appLogger)
		if err != nil {
			writeJSONError(w, statusForError(err), err.Error())
			return
		}
		if created {
			summary.Created++
		}
	}

	response := &MirrorHalfDaysResponse{
		Success: true,
		Data:    summary,
		Message: "Complementary half-days ensured",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
