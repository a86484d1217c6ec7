package normalize

import (
	"strings"

	"github.com/gomarkdown/markdown"

	"github.com/formaplus/docgen/internal/recordstore"
)

// StripQuotes removes exactly one layer of matched double quotes, an artifact
// of the upstream export. Unmatched or inner quotes are left alone.
func StripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// Normalize cleans a freshly fetched record: every string field loses one
// layer of export quoting, and every field named in markupFields is converted
// from lightweight markup to render-ready HTML. List-valued markup fields are
// joined with newlines before conversion.
func Normalize(rec recordstore.Record, markupFields []string) recordstore.Record {
	out := recordstore.Record{ID: rec.ID, Fields: make(map[string]any, len(rec.Fields))}

	for name, value := range rec.Fields {
		if s, ok := value.(string); ok {
			out.Fields[name] = StripQuotes(s)
		} else {
			out.Fields[name] = value
		}
	}

	for _, name := range markupFields {
		value, ok := out.Fields[name]
		if !ok || value == nil {
			continue
		}

		var src string
		switch t := value.(type) {
		case string:
			src = t
		case []any:
			parts := make([]string, 0, len(t))
			for _, e := range t {
				if s, ok := e.(string); ok {
					parts = append(parts, s)
				}
			}
			src = strings.Join(parts, "\n")
		default:
			continue
		}

		if src == "" {
			continue
		}
		rendered := markdown.ToHTML([]byte(src), nil, nil)
		out.Fields[name] = strings.TrimSpace(string(rendered))
	}

	return out
}

// FillDefaults guarantees every declared field is present: absent or falsy
// fields become the empty string, present values are untouched. Downstream
// template rendering then never fails on an undeclared-field lookup.
func FillDefaults(declared []string, rec recordstore.Record) recordstore.Record {
	out := recordstore.Record{ID: rec.ID, Fields: make(map[string]any, len(declared))}
	for name, value := range rec.Fields {
		out.Fields[name] = value
	}

	for _, name := range declared {
		value, ok := out.Fields[name]
		if !ok || isFalsy(value) {
			out.Fields[name] = ""
		}
	}
	return out
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	}
	return false
}
