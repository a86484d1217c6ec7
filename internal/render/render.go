package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// Renderer is the templating boundary: template bytes plus a flat data object
// in, rendered document bytes out. The engine behind it (docx merge, HTML,
// anything else) is opaque to the rest of the system.
type Renderer interface {
	Render(tmpl []byte, data map[string]any) ([]byte, error)
}

// TemplateStore resolves the template bytes of a document type.
type TemplateStore interface {
	Load(name string) ([]byte, error)
}

// DirStore loads templates from a directory on disk, by file name.
type DirStore struct {
	Dir string
}

func (s DirStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", name, err)
	}
	return data, nil
}

// HTMLRenderer renders HTML templates; used for the email bodies. Document
// fields converted from lightweight markup arrive as pre-rendered HTML and
// must not be escaped twice, so string values pass through as template.HTML.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(tmpl []byte, data map[string]any) ([]byte, error) {
	t, err := template.New("document").Parse(string(tmpl))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	safe := make(map[string]any, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			safe[k] = template.HTML(s)
		} else {
			safe[k] = v
		}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, safe); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	return buf.Bytes(), nil
}
