package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"disallowed punctuation removed", `Facture n12/34: "client"?.docx`, "Facture n1234 client.docx"},
		{"double spaces collapsed", "Facture  Durand   SARL.docx", "Facture Durand SARL.docx"},
		{"duplicated extension reduced", "x.docx.docx", "x.docx"},
		{"triple extension reduced", "x.docx.docx.docx", "x.docx"},
		{"accented letters kept", "Émargement février.docx", "Émargement février.docx"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFilename(tc.in); got != tc.want {
				t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}

	t.Run("capped at 150 runes", func(t *testing.T) {
		long := strings.Repeat("a", 200) + ".docx"
		got := SanitizeFilename(long)
		if len([]rune(got)) > 150 {
			t.Fatalf("expected length <= 150, got %d", len([]rune(got)))
		}
	})
}

func TestBuild(t *testing.T) {
	members := []Member{
		{Name: "Convocation - Durand.docx", Data: []byte("one")},
		{Name: "Convocation - Durand.docx", Data: []byte("two")},
		{Name: "Convocation - Martin.docx", Data: []byte("three")},
	}

	blob, err := Build(members)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}
	if len(zr.File) != 3 {
		t.Fatalf("expected 3 members, got %d", len(zr.File))
	}

	names := make(map[string]bool)
	for _, f := range zr.File {
		if names[f.Name] {
			t.Fatalf("duplicate member name %q", f.Name)
		}
		names[f.Name] = true

		r, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open member %s: %v", f.Name, err)
		}
		if _, err := io.ReadAll(r); err != nil {
			t.Fatalf("failed to read member %s: %v", f.Name, err)
		}
		r.Close()
	}
	if !names["Convocation - Durand.docx"] || !names["Convocation - Durand (2).docx"] {
		t.Fatalf("expected deterministic de-collision, got %v", names)
	}
}
