package recordstore

import "strconv"

// Record is one row of a remote collection. Fields is the decoded JSON field
// map; individual records may omit declared fields entirely.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// RecordUpdate names the partial fields to write to one record.
type RecordUpdate struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// FieldDef describes one declared field of a collection schema.
type FieldDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (r Record) Has(field string) bool {
	_, ok := r.Fields[field]
	return ok
}

// Str returns the field as a string, tolerating numeric and boolean JSON values.
func (r Record) Str(field string) string {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		// Lookup fields come back as single-element arrays.
		if len(t) == 1 {
			return Record{Fields: map[string]any{field: t[0]}}.Str(field)
		}
	}
	return ""
}

// Float returns the field as a float64, unwrapping single-element lookup arrays.
func (r Record) Float(field string) float64 {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	case []any:
		if len(t) == 1 {
			return Record{Fields: map[string]any{field: t[0]}}.Float(field)
		}
	}
	return 0
}

func (r Record) Bool(field string) bool {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1" || t == "oui"
	case float64:
		return t != 0
	case []any:
		if len(t) == 1 {
			return Record{Fields: map[string]any{field: t[0]}}.Bool(field)
		}
	}
	return false
}

// Strings returns a list field as strings, or a single scalar as a one-element list.
func (r Record) Strings(field string) []string {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, Record{Fields: map[string]any{field: e}}.Str(field))
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	}
	return nil
}

// Refs returns the linked-record ids of a reference field.
func (r Record) Refs(field string) []string {
	return r.Strings(field)
}

// FirstRef returns the first linked id of a reference field, or "".
func (r Record) FirstRef(field string) string {
	refs := r.Refs(field)
	if len(refs) == 0 {
		return ""
	}
	return refs[0]
}
