package testsupport

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/openapi"
	"github.com/goliatone/go-errorspec/pkg/source"
)

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source. Testing helpers fail the test on error to keep callers concise.
func LoadDocument(t *testing.T, path string) openapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (openapi.Document, error) {
	if path == "" {
		return openapi.Document{}, errors.New("testsupport: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return openapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := openapi.NewDocument(source.FromFile(path), data)
	if err != nil {
		return openapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// LoadModel parses a Smithy JSON AST fixture.
func LoadModel(t *testing.T, path string) *model.Model {
	t.Helper()

	m, err := LoadModelFromPath(path)
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	return m
}

// LoadModelFromPath parses a model fixture without requiring testing.T.
func LoadModelFromPath(path string) (*model.Model, error) {
	if path == "" {
		return nil, errors.New("testsupport: model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read model: %w", err)
	}
	m, err := model.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse model: %w", err)
	}
	return m, nil
}

// Node walks an object tree by keys and fails the test when a step is
// missing or not an object.
func Node(t *testing.T, root map[string]any, keys ...string) any {
	t.Helper()

	var current any = root
	for i, key := range keys {
		obj, ok := current.(map[string]any)
		if !ok {
			t.Fatalf("path %v: %v is %T, not an object", keys, keys[:i], current)
		}
		next, ok := obj[key]
		if !ok {
			t.Fatalf("path %v: missing key %q", keys, key)
		}
		current = next
	}
	return current
}

// Object is Node asserting an object result.
func Object(t *testing.T, root map[string]any, keys ...string) map[string]any {
	t.Helper()

	obj, ok := Node(t, root, keys...).(map[string]any)
	if !ok {
		t.Fatalf("path %v: not an object", keys)
	}
	return obj
}
