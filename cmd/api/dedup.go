package main

import (
	"net/http"

	"github.com/formaplus/docgen/internal/dedup"
	"github.com/formaplus/docgen/internal/response"
)

type dedupSummary struct {
	Rows    int               `json:"rows"`
	Checked int               `json:"checked"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Results []dedup.RowResult `json:"results"`
}

type RunDedupResponse = response.APIResponse[dedupSummary]

func (app *application) handleRunDedup(w http.ResponseWriter, r *http.Request) {
	results, err := app.dedup.Run(r.Context())
	if err != nil {
		writeJSONError(w, statusForError(err), "dedup batch failed: "+err.Error())
		return
	}

	summary := dedupSummary{Rows: len(results), Results: results}
	for _, res := range results {
		switch {
		case res.Skipped:
			summary.Skipped++
		case res.Err != nil:
			summary.Failed++
		default:
			summary.Checked++
		}
	}

	response := &RunDedupResponse{
		Success: true,
		Data:    summary,
		Message: "Duplicate-resolution batch completed",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
