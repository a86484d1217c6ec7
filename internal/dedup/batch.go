package dedup

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/recordstore"
)

// Collections and fields of the reconciliation tables.
const (
	CollectionImports  = "Imports"
	CollectionPersons  = "Personnes"
	CollectionEntities = "Entités"

	FieldSurname      = "Nom"
	FieldGivenName    = "Prénom"
	FieldDenomination = "Dénomination"
	FieldEntityText   = "Entité"

	FieldChecked       = "Vérifié"
	FieldDuplicateRefs = "Doublons potentiels"
	FieldEntityRefs    = "Entités correspondantes"
)

// ValidationError marks an import row that cannot be matched; the row is
// logged, left unchecked and the batch continues.
type ValidationError struct {
	RowID  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("import row %s: %s", e.RowID, e.Reason)
}

// RowResult records the outcome of one import row.
type RowResult struct {
	RowID         string   `json:"row_id"`
	FullName      string   `json:"full_name"`
	Skipped       bool     `json:"skipped,omitempty"`
	SkipReason    string   `json:"skip_reason,omitempty"`
	PersonMatches []string `json:"person_matches,omitempty"`
	EntityMatch   string   `json:"entity_match,omitempty"`
	Err           error    `json:"-"`
	ErrMessage    string   `json:"error,omitempty"`
}

// Batch runs the duplicate-resolution pass over every unchecked import row.
// Row write-backs run concurrently with bounded parallelism; each row's
// success or failure is collected rather than fired and forgotten, and one
// row's failure never aborts the rest.
type Batch struct {
	gw          recordstore.Gateway
	appLogger   *logger.Logger
	concurrency int
}

func NewBatch(gw recordstore.Gateway, appLogger *logger.Logger, concurrency int) *Batch {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Batch{gw: gw, appLogger: appLogger, concurrency: concurrency}
}

func (b *Batch) Run(ctx context.Context) ([]RowResult, error) {
	const component = "Dedup"

	rows, err := b.gw.FetchCollection(ctx, CollectionImports, recordstore.ListOptions{
		FilterFormula: fmt.Sprintf("NOT({%s})", FieldChecked),
	})
	if err != nil {
		return nil, err
	}

	persons, err := b.loadPersons(ctx)
	if err != nil {
		return nil, err
	}
	entities, err := b.loadEntities(ctx)
	if err != nil {
		return nil, err
	}

	b.appLogger.Info(component, "Starting batch: rows=%d persons=%d entities=%d concurrency=%d",
		len(rows), len(persons), len(entities), b.concurrency)

	results := make([]RowResult, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			results[i] = b.processRow(gctx, row, persons, entities)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	checked, skipped, failed := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
		case r.Err != nil:
			failed++
		default:
			checked++
		}
	}
	b.appLogger.Info(component, "Batch complete: checked=%d skipped=%d failed=%d", checked, skipped, failed)
	return results, nil
}

func (b *Batch) processRow(ctx context.Context, row recordstore.Record, persons []PersonCandidate, entities []EntityCandidate) RowResult {
	const component = "Dedup"

	surname := row.Str(FieldSurname)
	givenName := row.Str(FieldGivenName)
	result := RowResult{RowID: row.ID, FullName: strings.TrimSpace(surname + " " + givenName)}

	if surname == "" && givenName == "" {
		verr := &ValidationError{RowID: row.ID, Reason: "missing both surname and given name"}
		b.appLogger.Warn(component, "Skipping row: %v", verr)
		result.Skipped = true
		result.SkipReason = verr.Reason
		return result
	}

	result.PersonMatches = MatchPersons(result.FullName, persons)
	if denomination := row.Str(FieldEntityText); denomination != "" {
		result.EntityMatch = MatchEntity(denomination, entities)
	}

	fields := map[string]any{
		FieldChecked:       true,
		FieldDuplicateRefs: result.PersonMatches,
	}
	if result.EntityMatch != "" {
		fields[FieldEntityRefs] = union(row.Refs(FieldEntityRefs), result.EntityMatch)
	}

	if _, err := b.gw.UpdateOne(ctx, CollectionImports, row.ID, fields); err != nil {
		b.appLogger.Error(component, "Row update failed: row=%s err=%v", row.ID, err)
		result.Err = err
		result.ErrMessage = err.Error()
	}
	return result
}

func (b *Batch) loadPersons(ctx context.Context) ([]PersonCandidate, error) {
	records, err := b.gw.FetchCollection(ctx, CollectionPersons, recordstore.ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]PersonCandidate, 0, len(records))
	for _, rec := range records {
		full := strings.TrimSpace(rec.Str(FieldSurname) + " " + rec.Str(FieldGivenName))
		if full == "" {
			continue
		}
		out = append(out, PersonCandidate{ID: rec.ID, FullName: full})
	}
	return out, nil
}

func (b *Batch) loadEntities(ctx context.Context) ([]EntityCandidate, error) {
	records, err := b.gw.FetchCollection(ctx, CollectionEntities, recordstore.ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]EntityCandidate, 0, len(records))
	for _, rec := range records {
		denomination := rec.Str(FieldDenomination)
		if denomination == "" {
			continue
		}
		out = append(out, EntityCandidate{ID: rec.ID, Denomination: denomination})
	}
	return out, nil
}

func union(existing []string, extra string) []string {
	for _, id := range existing {
		if id == extra {
			return existing
		}
	}
	return append(append([]string{}, existing...), extra)
}
