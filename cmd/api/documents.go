package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formaplus/docgen/internal/docs"
	"github.com/formaplus/docgen/internal/recordstore"
)

// handleGenerateDocument streams a generated document (or zip of documents)
// for the requested type and target record/session.
func (app *application) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "type")
	req := docs.Request{
		RecordID:  r.URL.Query().Get("id"),
		SessionID: r.URL.Query().Get("session"),
	}

	if req.RecordID == "" && req.SessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing id or session parameter")
		return
	}

	result, err := app.dispatcher.Generate(r.Context(), typeName, req)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Bytes)
}

// statusForError maps the error taxonomy onto HTTP statuses. Absent records
// are client errors and violated business invariants are unprocessable;
// anything that reached the remote store is a server error.
func statusForError(err error) int {
	var notFound *recordstore.RecordNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var precondition *docs.PreconditionError
	if errors.As(err, &precondition) {
		return http.StatusUnprocessableEntity
	}
	var source *recordstore.DataSourceError
	if errors.As(err, &source) {
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
