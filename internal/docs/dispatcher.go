package docs

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/formaplus/docgen/internal/archive"
	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/recordstore"
	"github.com/formaplus/docgen/internal/render"
)

// Result is a rendered deliverable ready to stream back: a single document or
// a zip of several.
type Result struct {
	Filename    string
	ContentType string
	Bytes       []byte
}

// Dispatcher maps document-type names to their strategies and drives
// assembly, rendering and batching.
type Dispatcher struct {
	registry  map[string]DocumentType
	templates render.TemplateStore
	renderer  render.Renderer
	appLogger *logger.Logger
}

func NewDispatcher(templates render.TemplateStore, renderer render.Renderer, appLogger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		registry:  make(map[string]DocumentType),
		templates: templates,
		renderer:  renderer,
		appLogger: appLogger,
	}
}

func (d *Dispatcher) Register(dt DocumentType) {
	d.registry[dt.Name()] = dt
}

// Types lists the registered document-type names, sorted.
func (d *Dispatcher) Types() []string {
	names := make([]string, 0, len(d.registry))
	for name := range d.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate runs one document request end to end. A single assembled output
// comes back as its rendered bytes; several come back zipped, and the archive
// is only finalized once every member has been rendered and appended.
func (d *Dispatcher) Generate(ctx context.Context, typeName string, req Request) (Result, error) {
	const component = "Dispatcher"

	dt, ok := d.registry[typeName]
	if !ok {
		return Result{}, fmt.Errorf("unknown document type %q", typeName)
	}

	tmpl, err := d.templates.Load(dt.TemplateFile())
	if err != nil {
		return Result{}, err
	}

	outputs, err := dt.Assemble(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if len(outputs) == 0 {
		return Result{}, &recordstore.RecordNotFoundError{Collection: typeName, RecordID: req.RecordID + req.SessionID}
	}

	if len(outputs) == 1 {
		rendered, err := d.renderer.Render(tmpl, outputs[0].Data)
		if err != nil {
			return Result{}, fmt.Errorf("failed to render %s: %w", typeName, err)
		}
		name := archive.SanitizeFilename(outputs[0].Filename)
		d.appLogger.Info(component, "Generated document: type=%s file=%s size=%d", typeName, name, len(rendered))
		return Result{Filename: name, ContentType: contentTypeFor(name), Bytes: rendered}, nil
	}

	members := make([]archive.Member, 0, len(outputs))
	for _, out := range outputs {
		rendered, err := d.renderer.Render(tmpl, out.Data)
		if err != nil {
			return Result{}, fmt.Errorf("failed to render %s member %s: %w", typeName, out.Filename, err)
		}
		members = append(members, archive.Member{Name: out.Filename, Data: rendered})
	}

	zipped, err := archive.Build(members)
	if err != nil {
		return Result{}, err
	}

	name := archive.SanitizeFilename(typeName + "s.zip")
	d.appLogger.Info(component, "Generated archive: type=%s members=%d size=%d", typeName, len(members), len(zipped))
	return Result{Filename: name, ContentType: "application/zip", Bytes: zipped}, nil
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".html":
		return "text/html; charset=utf-8"
	case ".pdf":
		return "application/pdf"
	case ".zip":
		return "application/zip"
	}
	return "application/octet-stream"
}

// DefaultRegistry wires the full document-type catalogue against a gateway.
func DefaultRegistry(gw recordstore.Gateway, appLogger *logger.Logger) []DocumentType {
	return []DocumentType{
		NewBillingDoc(gw, appLogger, "facture", "Facture", "facture.docx"),
		NewBillingDoc(gw, appLogger, "devis", "Devis", "devis.docx"),
		NewBillingDoc(gw, appLogger, "convention", "Convention", "convention.docx"),
		NewGroupInvoiceDoc(gw, appLogger, "facture_groupe.docx"),
		NewEmargementDoc(gw, appLogger, "emargement.docx"),
		NewConvocationDoc(gw, appLogger, "convocation.docx"),
		NewAttestationDoc(gw, appLogger, "attestation.docx"),
		NewConfirmationDoc(gw, appLogger, "confirmation.html"),
	}
}
