package normalize

import (
	"strings"
	"testing"

	"github.com/formaplus/docgen/internal/recordstore"
)

func TestStripQuotes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"quoted"`, "quoted"},
		{`""double""`, `"double"`},
		{`plain`, "plain"},
		{`"unmatched`, `"unmatched`},
		{`"`, `"`},
		{``, ""},
		{`inner "quotes" stay`, `inner "quotes" stay`},
	}
	for _, tc := range cases {
		if got := StripQuotes(tc.in); got != tc.want {
			t.Fatalf("StripQuotes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeConvertsMarkupFields(t *testing.T) {
	rec := recordstore.Record{
		ID: "rec1",
		Fields: map[string]any{
			"Objectifs": "**Maîtriser** les bases",
			"Contenu":   []any{"- point un", "- point deux"},
			"Titre":     `"Session d'automne"`,
		},
	}

	out := Normalize(rec, []string{"Objectifs", "Contenu"})

	obj, _ := out.Fields["Objectifs"].(string)
	if !strings.Contains(obj, "<strong>Maîtriser</strong>") {
		t.Fatalf("expected bold markup converted, got %q", obj)
	}
	content, _ := out.Fields["Contenu"].(string)
	if !strings.Contains(content, "<li>") {
		t.Fatalf("expected list items joined and converted, got %q", content)
	}
	if out.Fields["Titre"] != "Session d'automne" {
		t.Fatalf("expected quoting artifact stripped, got %q", out.Fields["Titre"])
	}
	if rec.Fields["Objectifs"] != "**Maîtriser** les bases" {
		t.Fatalf("input record must not be mutated")
	}
}

func TestFillDefaults(t *testing.T) {
	declared := []string{"Nom", "Prénom", "Email", "Remise", "Notes"}
	rec := recordstore.Record{
		ID: "rec2",
		Fields: map[string]any{
			"Nom":    "Durand",
			"Remise": 0.0,
			"Notes":  []any{},
		},
	}

	out := FillDefaults(declared, rec)

	for _, name := range declared {
		if _, ok := out.Fields[name]; !ok {
			t.Fatalf("declared field %q absent after FillDefaults", name)
		}
	}
	if out.Fields["Nom"] != "Durand" {
		t.Fatalf("present value changed: %v", out.Fields["Nom"])
	}
	for _, name := range []string{"Prénom", "Email", "Remise", "Notes"} {
		if out.Fields[name] != "" {
			t.Fatalf("expected empty-string default for %q, got %v", name, out.Fields[name])
		}
	}
}
