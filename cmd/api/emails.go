package main

import (
	"net/http"

	"github.com/formaplus/docgen/internal/docs"
	"github.com/formaplus/docgen/internal/mailer"
	"github.com/formaplus/docgen/internal/response"
)

type SendConfirmationResponse = response.APIResponse[map[string]string]

// handleSendConfirmation emails the enrollment-confirmation to a trainee with
// their convocation attached.
func (app *application) handleSendConfirmation(w http.ResponseWriter, r *http.Request) {
	enrollmentID := r.URL.Query().Get("enrollment")
	if enrollmentID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing enrollment parameter")
		return
	}

	ctx := r.Context()

	enrollment, err := app.gateway.FetchOne(ctx, docs.CollectionEnrollments, enrollmentID)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	recipient := enrollment.Str(docs.FieldTraineeEmail)
	if recipient == "" {
		writeJSONError(w, http.StatusBadRequest, "enrollment has no email address")
		return
	}

	req := docs.Request{RecordID: enrollmentID}

	body, err := app.dispatcher.Generate(ctx, "confirmation", req)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	convocation, err := app.dispatcher.Generate(ctx, "convocation", req)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	msg := mailer.Message{
		To:       recipient,
		Subject:  "Confirmation d'inscription",
		HTMLBody: body.Bytes,
		Attachments: []mailer.Attachment{
			{Filename: convocation.Filename, Data: convocation.Bytes},
		},
	}
	if err := app.mailer.Send(msg); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := &SendConfirmationResponse{
		Success: true,
		Data:    map[string]string{"recipient": recipient},
		Message: "Confirmation email sent",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
