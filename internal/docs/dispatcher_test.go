package docs

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/recordstore"
)

// fakeGateway serves canned records keyed by collection (lists) and
// collection/id (single fetches), counting single fetches per key.
type fakeGateway struct {
	lists     map[string][]recordstore.Record
	singles   map[string]recordstore.Record
	fetchOnes map[string]int
}

func (f *fakeGateway) FetchCollection(ctx context.Context, collection string, opts recordstore.ListOptions) ([]recordstore.Record, error) {
	return f.lists[collection], nil
}

func (f *fakeGateway) FetchOne(ctx context.Context, collection, id string) (recordstore.Record, error) {
	if f.fetchOnes == nil {
		f.fetchOnes = make(map[string]int)
	}
	f.fetchOnes[collection+"/"+id]++
	rec, ok := f.singles[collection+"/"+id]
	if !ok {
		return recordstore.Record{}, &recordstore.RecordNotFoundError{Collection: collection, RecordID: id}
	}
	return rec, nil
}

func (f *fakeGateway) CreateOne(ctx context.Context, collection string, fields map[string]any) (recordstore.Record, error) {
	return recordstore.Record{ID: "recNew", Fields: fields}, nil
}

func (f *fakeGateway) UpdateOne(ctx context.Context, collection, id string, fields map[string]any) (recordstore.Record, error) {
	return recordstore.Record{ID: id, Fields: fields}, nil
}

func (f *fakeGateway) UpdateMany(ctx context.Context, collection string, updates []recordstore.RecordUpdate) ([]recordstore.Record, error) {
	return nil, nil
}

func (f *fakeGateway) FetchSchema(ctx context.Context, collection string) ([]recordstore.FieldDef, error) {
	return nil, nil
}

// jsonRenderer dumps the data object as JSON so tests can inspect what
// reached the template boundary.
type jsonRenderer struct{}

func (jsonRenderer) Render(tmpl []byte, data map[string]any) ([]byte, error) {
	return json.Marshal(data)
}

type memStore struct{}

func (memStore) Load(name string) ([]byte, error) { return []byte("tmpl:" + name), nil }

func testLogger() *logger.Logger { return logger.New(logger.LevelError) }

func newTestDispatcher(gw recordstore.Gateway) *Dispatcher {
	d := NewDispatcher(memStore{}, jsonRenderer{}, testLogger())
	for _, dt := range DefaultRegistry(gw, testLogger()) {
		d.Register(dt)
	}
	return d
}

func baseGateway() *fakeGateway {
	return &fakeGateway{
		lists: map[string][]recordstore.Record{},
		singles: map[string]recordstore.Record{
			CollectionBilling + "/fac1": {ID: "fac1", Fields: map[string]any{
				FieldDocNumber:  "F-2026-041",
				FieldDocDate:    "2026-03-01",
				FieldEnrollment: []any{"ins1"},
				FieldSession:    []any{"sess1"},
				"Entité OPCO":   "OPCO Atlas",
				"Entité":        "Client SARL",
				"Ville":         "Lyon",
			}},
			CollectionEnrollments + "/ins1": {ID: "ins1", Fields: map[string]any{
				FieldTraineeName:    "Marie Dupont",
				FieldTraineeEmail:   "marie@example.org",
				FieldMember:         true,
				FieldMemberPrice:    300.0,
				FieldNonMemberPrice: 400.0,
				FieldDiscountRate:   0.2,
				FieldSession:        []any{"sess1"},
			}},
			CollectionSessions + "/sess1": {ID: "sess1", Fields: map[string]any{
				FieldSessionNumber: "S-12",
				FieldProgram:       []any{"prog1"},
				FieldLocations:     []any{"Visioconférence"},
				FieldAddresses:     []any{"lien zoom"},
			}},
			CollectionPrograms + "/prog1": {ID: "prog1", Fields: map[string]any{
				FieldProgramTitle:  "Gestes et postures",
				FieldProgramLength: "14 heures",
				FieldObjectives:    "**Prévenir** les risques",
			}},
		},
	}
}

func renderedData(t *testing.T, result Result) map[string]any {
	t.Helper()
	var data map[string]any
	if err := json.Unmarshal(result.Bytes, &data); err != nil {
		t.Fatalf("renderer output is not JSON: %v", err)
	}
	return data
}

func TestGenerateFacture(t *testing.T) {
	d := newTestDispatcher(baseGateway())

	result, err := d.Generate(context.Background(), "facture", Request{RecordID: "fac1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data := renderedData(t, result)
	if data["entite"] != "OPCO Atlas" {
		t.Fatalf("expected funding-body override in merged entity, got %v", data["entite"])
	}
	if data["montant"] != 240.0 {
		t.Fatalf("expected discounted member price 240, got %v", data["montant"])
	}
	if data["stagiaire"] != "Marie Dupont" {
		t.Fatalf("unexpected trainee %v", data["stagiaire"])
	}
	if data["programme_intitule"] != "Gestes et postures" {
		t.Fatalf("expected program context merged in, got %v", data["programme_intitule"])
	}
	if result.Filename != "Facture F-2026-041 - OPCO Atlas.docx" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
}

func TestGenerateMissingPrimaryRecord(t *testing.T) {
	d := newTestDispatcher(baseGateway())

	_, err := d.Generate(context.Background(), "facture", Request{RecordID: "facMissing"})
	var notFound *recordstore.RecordNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected RecordNotFoundError, got %v", err)
	}
}

func TestGenerateUnknownType(t *testing.T) {
	d := newTestDispatcher(baseGateway())
	if _, err := d.Generate(context.Background(), "bulletin", Request{RecordID: "x"}); err == nil {
		t.Fatalf("expected unknown-type error")
	}
}

func TestGroupInvoiceRequiresUnicity(t *testing.T) {
	gw := baseGateway()
	gw.singles[CollectionBilling+"/fg1"] = recordstore.Record{ID: "fg1", Fields: map[string]any{
		FieldDocNumber: "F-2026-050",
		FieldGroupID:   "grp1",
		FieldUnicity:   "doublon",
	}}

	d := newTestDispatcher(gw)
	_, err := d.Generate(context.Background(), "facture-groupe", Request{RecordID: "fg1"})

	var precondition *PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
}

func TestGroupInvoiceRoster(t *testing.T) {
	gw := baseGateway()
	gw.singles[CollectionBilling+"/fg1"] = recordstore.Record{ID: "fg1", Fields: map[string]any{
		FieldDocNumber: "F-2026-050",
		FieldGroupID:   "grp1",
		FieldUnicity:   UnicityOK,
		FieldSession:   []any{"sess1"},
		"Entité":       "Client SARL",
	}}
	gw.lists[CollectionEnrollments] = []recordstore.Record{
		{ID: "ins1", Fields: map[string]any{FieldTraineeName: "Marie Dupont", FieldMember: true, FieldMemberPrice: 300.0}},
		{ID: "ins2", Fields: map[string]any{FieldTraineeName: "Paul Martin", FieldNonMemberPrice: 400.0, FieldPaymentStatus: StatusPaid}},
	}

	d := newTestDispatcher(gw)
	result, err := d.Generate(context.Background(), "facture-groupe", Request{RecordID: "fg1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data := renderedData(t, result)
	if data["montant"] != 300.0 {
		t.Fatalf("expected paid enrollment excluded from total, got %v", data["montant"])
	}
	participants, _ := data["participants"].([]any)
	if len(participants) != 2 {
		t.Fatalf("expected full roster retained, got %v", data["participants"])
	}
	if got := gw.fetchOnes[CollectionSessions+"/sess1"]; got != 1 {
		t.Fatalf("expected a single session fetch, got %d", got)
	}
}

func TestGroupInvoiceOnSitePackage(t *testing.T) {
	gw := baseGateway()
	gw.singles[CollectionBilling+"/fg2"] = recordstore.Record{ID: "fg2", Fields: map[string]any{
		FieldDocNumber: "F-2026-051",
		FieldGroupID:   "grp2",
		FieldUnicity:   UnicityOK,
		FieldSession:   []any{"sessIntra"},
		"Entité":       "Client SARL",
	}}
	gw.singles[CollectionSessions+"/sessIntra"] = recordstore.Record{ID: "sessIntra", Fields: map[string]any{
		FieldLocations:     []any{"Sur site client"},
		FieldAddresses:     []any{"ZI des Chênes, Vénissieux"},
		FieldOnSitePackage: 2400.0,
	}}
	gw.lists[CollectionEnrollments] = []recordstore.Record{
		{ID: "ins1", Fields: map[string]any{FieldTraineeName: "Marie Dupont", FieldMemberPrice: 300.0}},
	}

	d := newTestDispatcher(gw)
	result, err := d.Generate(context.Background(), "facture-groupe", Request{RecordID: "fg2"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data := renderedData(t, result)
	if data["montant"] != 2400.0 {
		t.Fatalf("expected flat package price, got %v", data["montant"])
	}
	participants, _ := data["participants"].([]any)
	if len(participants) != 0 {
		t.Fatalf("expected roster suppressed for on-site billing, got %v", participants)
	}
	if data["effectif"] != "À déterminer" {
		t.Fatalf("expected headcount placeholder, got %v", data["effectif"])
	}
}

func TestConvocationBatchZips(t *testing.T) {
	gw := baseGateway()
	gw.lists[CollectionEnrollments] = []recordstore.Record{
		{ID: "ins1", Fields: map[string]any{FieldTraineeName: "Marie Dupont", FieldSession: []any{"sess1"}}},
		{ID: "ins2", Fields: map[string]any{FieldTraineeName: "Paul Martin", FieldSession: []any{"sess1"}}},
	}

	d := newTestDispatcher(gw)
	result, err := d.Generate(context.Background(), "convocation", Request{SessionID: "sess1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.ContentType != "application/zip" {
		t.Fatalf("expected zip delivery, got %s", result.ContentType)
	}
	zr, err := zip.NewReader(bytes.NewReader(result.Bytes), int64(len(result.Bytes)))
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected one member per enrollment, got %d", len(zr.File))
	}
	if got := gw.fetchOnes[CollectionSessions+"/sess1"]; got != 1 {
		t.Fatalf("expected the session context resolved once for the batch, got %d fetches", got)
	}
}
