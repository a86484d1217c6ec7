package docs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/recordstore"
)

// ConvocationDoc assembles per-trainee convocations. Targeted at one
// enrollment it yields a single document; targeted at a session it yields one
// document per enrollment, which the dispatcher batches into an archive.
//
// The venue line always uses the joined multi-address form; generation is
// never skipped because a session has several declared addresses.
type ConvocationDoc struct {
	assembler
	name     string
	label    string
	template string
}

func NewConvocationDoc(gw recordstore.Gateway, appLogger *logger.Logger, template string) *ConvocationDoc {
	return &ConvocationDoc{
		assembler: assembler{gw: gw, appLogger: appLogger},
		name:      "convocation",
		label:     "Convocation",
		template:  template,
	}
}

// NewConfirmationDoc builds the HTML confirmation-email body type, which
// shares the convocation's per-trainee data shape.
func NewConfirmationDoc(gw recordstore.Gateway, appLogger *logger.Logger, template string) *ConvocationDoc {
	return &ConvocationDoc{
		assembler: assembler{gw: gw, appLogger: appLogger},
		name:      "confirmation",
		label:     "Confirmation d'inscription",
		template:  template,
	}
}

// NewAttestationDoc builds the end-of-training certificate type, which shares
// the convocation's per-trainee data shape.
func NewAttestationDoc(gw recordstore.Gateway, appLogger *logger.Logger, template string) *ConvocationDoc {
	return &ConvocationDoc{
		assembler: assembler{gw: gw, appLogger: appLogger},
		name:      "attestation",
		label:     "Attestation",
		template:  template,
	}
}

func (d *ConvocationDoc) Name() string         { return d.name }
func (d *ConvocationDoc) TemplateFile() string { return d.template }

func (d *ConvocationDoc) Assemble(ctx context.Context, req Request) ([]Output, error) {
	if req.RecordID != "" {
		enroll, err := d.fetchNormalized(ctx, CollectionEnrollments, req.RecordID, nil)
		if err != nil {
			return nil, err
		}
		sessionData, err := d.sessionData(ctx, enroll.FirstRef(FieldSession))
		if err != nil {
			return nil, err
		}
		return []Output{d.assembleOne(enroll, sessionData)}, nil
	}

	if req.SessionID == "" {
		return nil, &recordstore.RecordNotFoundError{Collection: CollectionEnrollments, RecordID: ""}
	}

	// The session context is identical for every member of the batch, so it
	// is resolved once up front.
	sessionData, err := d.sessionData(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	enrollRecs, err := d.gw.FetchCollection(ctx, CollectionEnrollments, recordstore.ListOptions{
		FilterFormula: sessionFilter(req.SessionID),
		SortField:     FieldTraineeName,
	})
	if err != nil {
		return nil, err
	}

	outputs := make([]Output, 0, len(enrollRecs))
	for _, enroll := range enrollRecs {
		outputs = append(outputs, d.assembleOne(enroll, sessionData))
	}
	return outputs, nil
}

func (d *ConvocationDoc) sessionData(ctx context.Context, sessionID string) (Data, error) {
	if sessionID == "" {
		return nil, nil
	}
	data, _, _, err := d.sessionContext(ctx, sessionID)
	return data, err
}

func (d *ConvocationDoc) assembleOne(enroll recordstore.Record, sessionData Data) Output {
	data := Data{
		"type_document": d.label,
		"stagiaire":     enroll.Str(FieldTraineeName),
		"email":         enroll.Str(FieldTraineeEmail),
	}
	for k, v := range sessionData {
		data[k] = v
	}

	ext := filepath.Ext(d.template)
	if ext == "" {
		ext = ".docx"
	}
	filename := fmt.Sprintf("%s - %s%s", d.label, enroll.Str(FieldTraineeName), ext)
	return Output{Filename: filename, Data: data}
}
