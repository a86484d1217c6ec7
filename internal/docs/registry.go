package docs

import (
	"context"
	"fmt"

	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/normalize"
	"github.com/formaplus/docgen/internal/recordstore"
)

// Request targets a document generation run at a primary record or, for
// multi-record types, at a whole session.
type Request struct {
	RecordID  string
	SessionID string
}

// Data is the flat object handed to the template engine.
type Data map[string]any

// Output is one assembled document before rendering.
type Output struct {
	Filename string
	Data     Data
}

// DocumentType is one registered document strategy: it knows its template and
// how to gather and derive its data.
type DocumentType interface {
	Name() string
	TemplateFile() string
	Assemble(ctx context.Context, req Request) ([]Output, error)
}

// assembler bundles what every document type needs to gather its data.
type assembler struct {
	gw        recordstore.Gateway
	appLogger *logger.Logger
}

// fetchNormalized fetches one record, strips export quoting, converts markup
// fields and fills every declared schema field so template lookups never miss.
func (a *assembler) fetchNormalized(ctx context.Context, collection, id string, markupFields []string) (recordstore.Record, error) {
	rec, err := a.gw.FetchOne(ctx, collection, id)
	if err != nil {
		return recordstore.Record{}, err
	}
	rec = normalize.Normalize(rec, markupFields)

	schema, err := a.gw.FetchSchema(ctx, collection)
	if err != nil {
		// Schema resolution is an optimization for template safety, not a
		// hard requirement; the record itself was fetched fine.
		a.appLogger.Warn("Assembler", "Schema unavailable, defaults not filled: collection=%s err=%v", collection, err)
		return rec, nil
	}

	declared := make([]string, 0, len(schema))
	for _, f := range schema {
		declared = append(declared, f.Name)
	}
	return normalize.FillDefaults(declared, rec), nil
}

// relatedList fetches an optional related collection; a missing or failing
// optional relation degrades to an empty list.
func (a *assembler) relatedList(ctx context.Context, collection, filterFormula, sortField string) []recordstore.Record {
	records, err := a.gw.FetchCollection(ctx, collection, recordstore.ListOptions{
		FilterFormula: filterFormula,
		SortField:     sortField,
	})
	if err != nil {
		a.appLogger.Warn("Assembler", "Optional relation unavailable, treating as empty: collection=%s err=%v", collection, err)
		return nil
	}
	return records
}

// sessionFilter builds the opaque formula matching records linked to a session.
func sessionFilter(sessionID string) string {
	return fmt.Sprintf("SEARCH('%s', ARRAYJOIN({%s}))", sessionID, FieldSession)
}

// groupFilter matches enrollments sharing a group invoice scope.
func groupFilter(groupID string) string {
	return fmt.Sprintf("{%s} = '%s'", FieldGroupID, groupID)
}
