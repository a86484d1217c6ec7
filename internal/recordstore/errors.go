package recordstore

import "fmt"

// DataSourceError wraps a remote fetch/update failure with the collection and
// record it concerned. Callers decide whether to abort or skip.
type DataSourceError struct {
	Collection string
	RecordID   string
	Op         string
	Err        error
}

func (e *DataSourceError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("record store %s %s/%s: %v", e.Op, e.Collection, e.RecordID, e.Err)
	}
	return fmt.Sprintf("record store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// RecordNotFoundError reports an absent primary record.
type RecordNotFoundError struct {
	Collection string
	RecordID   string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record %s not found in %s", e.RecordID, e.Collection)
}
