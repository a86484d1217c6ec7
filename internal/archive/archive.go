package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// maxFilenameLen caps sanitized member names.
const maxFilenameLen = 150

// Member is one file of a generated archive.
type Member struct {
	Name string
	Data []byte
}

// SanitizeFilename normalizes a candidate member name: characters outside the
// allowed charset are removed, runs of spaces collapse to one, a duplicated
// extension is reduced to a single one and the result is capped at 150 runes.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")

	if ext := filepath.Ext(cleaned); ext != "" {
		for strings.HasSuffix(strings.TrimSuffix(cleaned, ext), ext) {
			cleaned = strings.TrimSuffix(cleaned, ext)
		}
	}

	runes := []rune(cleaned)
	if len(runes) > maxFilenameLen {
		cleaned = string(runes[:maxFilenameLen])
	}
	return cleaned
}

// Build assembles members into a zip container. Member names are sanitized
// and de-collided deterministically; the container is finalized only after
// every member buffer has been appended.
func Build(members []Member) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	used := make(map[string]int)
	for _, m := range members {
		key := SanitizeFilename(m.Name)
		if key == "" {
			key = "document"
		}
		name := key
		if n := used[key]; n > 0 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n+1, ext)
		}
		used[key]++

		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to create archive member %s: %w", name, err)
		}
		if _, err := w.Write(m.Data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to write archive member %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
