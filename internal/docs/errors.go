package docs

import "fmt"

// PreconditionError reports a business invariant violated before generation.
// Fatal for the request; a partial or incorrect financial document must never
// be produced.
type PreconditionError struct {
	DocumentType string
	Reason       string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s precondition failed: %s", e.DocumentType, e.Reason)
}
