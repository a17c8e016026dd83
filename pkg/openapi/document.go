package openapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-errorspec/internal/yamlnode"
	"github.com/goliatone/go-errorspec/pkg/source"
)

// Format records the encoding a document was read from so it can be written
// back the same way.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat reports JSON when the payload opens with an object brace and
// YAML otherwise.
func DetectFormat(raw []byte) Format {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Document wraps a decoded OpenAPI payload and its origin. Numbers are kept
// as json.Number so values survive rewriting unchanged.
type Document struct {
	source source.Source
	format Format
	root   map[string]any
}

// NewDocument decodes raw JSON or YAML into a Document.
func NewDocument(src source.Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}

	format := DetectFormat(raw)
	root, err := decode(raw, format)
	if err != nil {
		return Document{}, fmt.Errorf("openapi: decode %s: %w", src.Location(), err)
	}
	return Document{source: src, format: format, root: root}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src source.Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// NewDocumentFromRoot wraps an already decoded tree. The tree is copied.
func NewDocumentFromRoot(src source.Source, format Format, root map[string]any) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if root == nil {
		return Document{}, errors.New("openapi: document root is nil")
	}
	if format == "" {
		format = FormatJSON
	}
	return Document{source: src, format: format, root: CloneObject(root)}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() source.Source {
	return d.source
}

// Format returns the encoding the document was read from.
func (d Document) Format() Format {
	return d.format
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Root returns a deep copy of the document tree.
func (d Document) Root() map[string]any {
	return CloneObject(d.root)
}

// Version returns the declared "openapi" version string, if any.
func (d Document) Version() string {
	version, _ := d.root["openapi"].(string)
	return version
}

// Encode serialises the document. An empty format falls back to the format
// the document was read from.
func (d Document) Encode(format Format) ([]byte, error) {
	if format == "" {
		format = d.format
	}
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(d.root, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("openapi: encode json: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		node, err := yamlnode.FromValue(d.root)
		if err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("openapi: unsupported format %q", format)
	}
}

func decode(raw []byte, format Format) (map[string]any, error) {
	var value any
	if format == FormatJSON {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
	} else {
		decoded, err := yamlnode.Decode(raw)
		if err != nil {
			return nil, err
		}
		value = decoded
	}

	root, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("document root must be an object")
	}
	return root, nil
}
