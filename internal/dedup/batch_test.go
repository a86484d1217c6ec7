package dedup

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/recordstore"
)

type fakeGateway struct {
	mu          sync.Mutex
	collections map[string][]recordstore.Record
	updates     map[string]map[string]any
	failRows    map[string]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		collections: make(map[string][]recordstore.Record),
		updates:     make(map[string]map[string]any),
		failRows:    make(map[string]bool),
	}
}

func (f *fakeGateway) FetchCollection(ctx context.Context, collection string, opts recordstore.ListOptions) ([]recordstore.Record, error) {
	return f.collections[collection], nil
}

func (f *fakeGateway) FetchOne(ctx context.Context, collection, id string) (recordstore.Record, error) {
	return recordstore.Record{}, &recordstore.RecordNotFoundError{Collection: collection, RecordID: id}
}

func (f *fakeGateway) CreateOne(ctx context.Context, collection string, fields map[string]any) (recordstore.Record, error) {
	return recordstore.Record{ID: "recNew", Fields: fields}, nil
}

func (f *fakeGateway) UpdateOne(ctx context.Context, collection, id string, fields map[string]any) (recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRows[id] {
		return recordstore.Record{}, &recordstore.DataSourceError{Collection: collection, RecordID: id, Op: "update", Err: fmt.Errorf("boom")}
	}
	f.updates[id] = fields
	return recordstore.Record{ID: id, Fields: fields}, nil
}

func (f *fakeGateway) UpdateMany(ctx context.Context, collection string, updates []recordstore.RecordUpdate) ([]recordstore.Record, error) {
	return nil, nil
}

func (f *fakeGateway) FetchSchema(ctx context.Context, collection string) ([]recordstore.FieldDef, error) {
	return nil, nil
}

func importRow(id string, fields map[string]any) recordstore.Record {
	return recordstore.Record{ID: id, Fields: fields}
}

func TestBatchRun(t *testing.T) {
	gw := newFakeGateway()
	gw.collections[CollectionImports] = []recordstore.Record{
		importRow("row1", map[string]any{FieldSurname: "Dupont", FieldGivenName: "Marie", FieldEntityText: "ACME Formation SARL"}),
		importRow("row2", map[string]any{}),
		importRow("row3", map[string]any{FieldSurname: "Martin", FieldGivenName: "Paul"}),
	}
	gw.collections[CollectionPersons] = []recordstore.Record{
		{ID: "p1", Fields: map[string]any{FieldSurname: "Dupont", FieldGivenName: "Marie"}},
		{ID: "p2", Fields: map[string]any{FieldSurname: "Durand", FieldGivenName: "Jacques"}},
	}
	gw.collections[CollectionEntities] = []recordstore.Record{
		{ID: "e1", Fields: map[string]any{FieldDenomination: "SARL ACME Formation"}},
	}

	batch := NewBatch(gw, logger.New(logger.LevelError), 2)
	results, err := batch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected a result per row, got %d", len(results))
	}

	byID := make(map[string]RowResult)
	for _, r := range results {
		byID[r.RowID] = r
	}

	r1 := byID["row1"]
	if len(r1.PersonMatches) != 1 || r1.PersonMatches[0] != "p1" {
		t.Fatalf("expected row1 matched to p1, got %v", r1.PersonMatches)
	}
	if r1.EntityMatch != "e1" {
		t.Fatalf("expected row1 entity match e1, got %q", r1.EntityMatch)
	}
	fields := gw.updates["row1"]
	if fields == nil || fields[FieldChecked] != true {
		t.Fatalf("expected row1 written back as checked, got %v", fields)
	}

	if !byID["row2"].Skipped {
		t.Fatalf("row missing both name fields must be skipped")
	}
	if _, written := gw.updates["row2"]; written {
		t.Fatalf("skipped row must be left unchecked")
	}

	if byID["row3"].Skipped || byID["row3"].Err != nil {
		t.Fatalf("row3 should be checked even without matches: %+v", byID["row3"])
	}
}

func TestBatchContinuesPastRowFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.collections[CollectionImports] = []recordstore.Record{
		importRow("bad", map[string]any{FieldSurname: "Dupont"}),
		importRow("good", map[string]any{FieldSurname: "Martin"}),
	}
	gw.failRows["bad"] = true

	batch := NewBatch(gw, logger.New(logger.LevelError), 1)
	results, err := batch.Run(context.Background())
	if err != nil {
		t.Fatalf("a row failure must not abort the batch: %v", err)
	}

	byID := make(map[string]RowResult)
	for _, r := range results {
		byID[r.RowID] = r
	}
	if byID["bad"].Err == nil || byID["bad"].ErrMessage == "" {
		t.Fatalf("expected the failed row's error collected")
	}
	if _, written := gw.updates["good"]; !written {
		t.Fatalf("expected the remaining row processed after a failure")
	}
}
