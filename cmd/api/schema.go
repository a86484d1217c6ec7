package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formaplus/docgen/internal/recordstore"
	"github.com/formaplus/docgen/internal/response"
)

type GetSchemaResponse = response.APIResponse[[]recordstore.FieldDef]

func (app *application) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	fields, err := app.gateway.FetchSchema(r.Context(), collection)
	if err != nil {
		writeJSONError(w, statusForError(err), "failed to resolve schema: "+err.Error())
		return
	}

	response := &GetSchemaResponse{
		Success: true,
		Data:    fields,
		Message: "Successfully resolved collection schema",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
