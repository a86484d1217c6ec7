package dedup

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// WriteReviewCSV dumps the batch outcome to a CSV for human review. Person
// matching is deliberately permissive, so the decision of whether a flagged
// row really is a duplicate belongs to an operator, not to this program.
func WriteReviewCSV(path string, results []RowResult) error {
	records := [][]string{
		{"row_id", "full_name", "status", "person_matches", "entity_match", "detail"},
	}

	for _, r := range results {
		status := "checked"
		detail := ""
		switch {
		case r.Skipped:
			status = "skipped"
			detail = r.SkipReason
		case r.Err != nil:
			status = "update_failed"
			detail = r.Err.Error()
		}
		records = append(records, []string{
			r.RowID,
			r.FullName,
			status,
			strings.Join(r.PersonMatches, "|"),
			r.EntityMatch,
			detail,
		})
	}

	df := dataframe.LoadRecords(records)
	if df.Error() != nil {
		return fmt.Errorf("failed to build review dataframe: %w", df.Error())
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create review file %s: %w", path, err)
	}
	defer out.Close()

	if err := df.WriteCSV(out); err != nil {
		return fmt.Errorf("failed to write review file %s: %w", path, err)
	}
	return nil
}
