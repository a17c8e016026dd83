package mapper

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/testsupport"
)

func TestConstMapperRewritesDefaults(t *testing.T) {
	t.Parallel()

	doc := bankDocument(t)
	out, err := NewConstMapper().UpdateNode(context.Background(), bankContext(t), doc)
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}

	props := testsupport.Object(t, out, "components", "schemas", "ValidationErrorResponseContent", "properties")
	want := map[string]any{
		"type":   map[string]any{"type": "string", "const": "/errors/types/validation"},
		"status": map[string]any{"type": "integer", "const": json.Number("400")},
		"title":  map[string]any{"type": "string"},
	}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}

	unrelated := testsupport.Object(t, out, "components", "schemas", "Unrelated", "properties", "type")
	if _, ok := unrelated["default"]; !ok {
		t.Fatalf("unrelated schema should keep its default: %v", unrelated)
	}
	if diff := cmp.Diff(doc["paths"], out["paths"]); diff != "" {
		t.Fatalf("paths changed (-want +got):\n%s", diff)
	}
}

func TestConstMapperWithoutSuffixStripping(t *testing.T) {
	t.Parallel()

	doc := bankDocument(t)
	out, err := NewConstMapper(WithSchemaSuffixes()).UpdateNode(context.Background(), bankContext(t), doc)
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if diff := cmp.Diff(doc, out); diff != "" {
		t.Fatalf("expected no change without suffix stripping (-want +got):\n%s", diff)
	}
}

func TestConstMapperExactSchemaName(t *testing.T) {
	t.Parallel()

	m := model.MustNew(&model.Shape{
		ID:   model.MustShapeID("com.example#Problem"),
		Type: model.TypeStructure,
		Members: []*model.Member{{
			Name:   "kind",
			Target: model.MustShapeID("smithy.api#String"),
			Traits: map[model.ShapeID]any{model.MustShapeID("com.example#const"): "fixed"},
		}},
	})
	doc := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Problem": map[string]any{
					"properties": map[string]any{
						"kind":  map[string]any{"type": "string", "default": "original"},
						"other": map[string]any{"type": "string", "default": "kept"},
					},
				},
			},
		},
	}
	out, err := NewConstMapper().UpdateNode(context.Background(), &Context{Model: m}, doc)
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	props := testsupport.Object(t, out, "components", "schemas", "Problem", "properties")
	want := map[string]any{
		"kind":  map[string]any{"type": "string", "const": "fixed"},
		"other": map[string]any{"type": "string", "default": "kept"},
	}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestConstMapperNoAnnotatedMembers(t *testing.T) {
	t.Parallel()

	doc := bankDocument(t)
	out, err := NewConstMapper().UpdateNode(context.Background(), &Context{Model: model.MustNew()}, doc)
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if diff := cmp.Diff(doc, out); diff != "" {
		t.Fatalf("expected no change (-want +got):\n%s", diff)
	}
}
