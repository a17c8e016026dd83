package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const shopModel = `{
  "smithy": "2.0",
  "shapes": {
    "com.example#Shop": {
      "type": "service",
      "version": "2024-01-01",
      "operations": [{"target": "com.example#Ping"}],
      "resources": [{"target": "com.example#Order"}]
    },
    "com.example#Ping": {"type": "operation"},
    "com.example#Order": {
      "type": "resource",
      "read": {"target": "com.example#GetOrder"},
      "collectionOperations": [{"target": "com.example#ListOrders"}],
      "resources": [{"target": "com.example#Line"}]
    },
    "com.example#Line": {
      "type": "resource",
      "delete": {"target": "com.example#DeleteLine"},
      "operations": [{"target": "com.example#Ping"}]
    },
    "com.example#GetOrder": {
      "type": "operation",
      "input": {"target": "com.example#GetOrderInput"},
      "errors": [{"target": "com.example#NotFound"}]
    },
    "com.example#ListOrders": {"type": "operation"},
    "com.example#DeleteLine": {"type": "operation"},
    "com.example#GetOrderInput": {
      "type": "structure",
      "members": {
        "id": {"target": "smithy.api#String"},
        "expand": {"target": "smithy.api#Boolean"}
      }
    },
    "com.example#NotFound": {
      "type": "structure",
      "members": {"status": {"target": "smithy.api#Integer", "traits": {"smithy.api#default": 404}}},
      "traits": {"smithy.api#error": "client"}
    },
    "com.example#Tags": {"type": "list", "member": {"target": "smithy.api#String"}},
    "com.example#Labels": {
      "type": "map",
      "key": {"target": "smithy.api#String"},
      "value": {"target": "smithy.api#String"}
    },
    %s: {
      "type": "apply",
      "traits": {"com.example#memberExample": 404}
    }
  }
}`

func TestParseRejectsApplyToUnknownShape(t *testing.T) {
	m, err := Parse([]byte(fmt.Sprintf(shopModel, `"com.example#Missing$status"`)))
	if !errors.Is(err, ErrShapeNotFound) {
		t.Fatalf("expected ErrShapeNotFound, got %v", err)
	}
	if m != nil {
		t.Fatalf("model should be nil on error")
	}
}

func parseShop(t *testing.T) *Model {
	t.Helper()

	m, err := Parse([]byte(fmt.Sprintf(shopModel, `"com.example#NotFound$status"`)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

func TestParseShapes(t *testing.T) {
	m := parseShop(t)

	input, err := m.ExpectShape(MustShapeID("com.example#GetOrderInput"))
	if err != nil {
		t.Fatalf("ExpectShape: %v", err)
	}
	names := make([]string, 0, len(input.Members))
	for _, member := range input.Members {
		names = append(names, member.Name)
	}
	if diff := cmp.Diff([]string{"id", "expand"}, names); diff != "" {
		t.Fatalf("member order (-want +got):\n%s", diff)
	}
	if got := input.Members[0].ID.String(); got != "com.example#GetOrderInput$id" {
		t.Fatalf("member id = %q", got)
	}

	notFound, _ := m.Shape(MustShapeID("com.example#NotFound"))
	status, ok := notFound.MemberByName("status")
	if !ok {
		t.Fatalf("status member missing")
	}
	if got, _ := status.TraitNode(MustShapeID("smithy.api#default")); got != json.Number("404") {
		t.Fatalf("default = %#v", got)
	}
	if !status.HasTrait(MustShapeID("com.example#memberExample")) {
		t.Fatalf("apply did not reach the member")
	}
	if status.Container() != notFound.ID {
		t.Fatalf("container = %v", status.Container())
	}

	tags, _ := m.Shape(MustShapeID("com.example#Tags"))
	if !tags.IsList() || tags.Member.Target != MustShapeID("smithy.api#String") {
		t.Fatalf("list member = %+v", tags.Member)
	}
	labels, _ := m.Shape(MustShapeID("com.example#Labels"))
	if labels.Key == nil || labels.Member == nil {
		t.Fatalf("map key/value missing: %+v", labels)
	}

	shop, _ := m.Shape(MustShapeID("com.example#Shop"))
	if shop.Version != "2024-01-01" {
		t.Fatalf("version = %q", shop.Version)
	}

	if got := m.ShapesWithTrait(MustShapeID("smithy.api#error")); len(got) != 1 || got[0].ID != notFound.ID {
		t.Fatalf("ShapesWithTrait = %v", got)
	}
	if got := m.MembersWithTrait(MustShapeID("smithy.api#default")); len(got) != 1 || got[0] != status {
		t.Fatalf("MembersWithTrait = %v", got)
	}
}

func TestServiceOperationsWalksResources(t *testing.T) {
	m := parseShop(t)

	ops, err := m.ServiceOperations(MustShapeID("com.example#Shop"))
	if err != nil {
		t.Fatalf("ServiceOperations: %v", err)
	}
	var ids []string
	for _, op := range ops {
		ids = append(ids, op.ID.String())
	}
	want := []string{
		"com.example#DeleteLine",
		"com.example#GetOrder",
		"com.example#ListOrders",
		"com.example#Ping",
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("operations (-want +got):\n%s", diff)
	}

	if _, err := m.ServiceOperations(MustShapeID("com.example#Ping")); err == nil {
		t.Fatalf("expected error for non-service shape")
	}
	if _, err := m.ServiceOperations(MustShapeID("com.example#Missing")); !errors.Is(err, ErrShapeNotFound) {
		t.Fatalf("expected ErrShapeNotFound, got %v", err)
	}
}

func TestPreludeShapesResolve(t *testing.T) {
	m := MustNew()
	shape, ok := m.Shape(MustShapeID("smithy.api#Integer"))
	if !ok || shape.Type != TypeInteger {
		t.Fatalf("prelude Integer = %+v, %v", shape, ok)
	}
	if _, ok := m.Shape(MustShapeID("smithy.api#Nope")); ok {
		t.Fatalf("unknown prelude shape resolved")
	}
}

func TestParseRejectsMalformedModels(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not an object", raw: `[1]`},
		{name: "missing version", raw: `{"shapes": {}}`},
		{name: "missing type", raw: `{"smithy": "2.0", "shapes": {"a#B": {}}}`},
		{name: "unsupported type", raw: `{"smithy": "2.0", "shapes": {"a#B": {"type": "widget"}}}`},
		{name: "member key", raw: `{"smithy": "2.0", "shapes": {"a#B$c": {"type": "structure"}}}`},
		{name: "bad id", raw: `{"smithy": "2.0", "shapes": {"B": {"type": "structure"}}}`},
		{name: "list without member", raw: `{"smithy": "2.0", "shapes": {"a#L": {"type": "list"}}}`},
		{name: "member without target", raw: `{"smithy": "2.0", "shapes": {"a#S": {"type": "structure", "members": {"x": {}}}}}`},
		{name: "errors not a list", raw: `{"smithy": "2.0", "shapes": {"a#O": {"type": "operation", "errors": {}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.raw)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseYAMLModel(t *testing.T) {
	raw := []byte(`
smithy: "2.0"
shapes:
  com.example#Fault:
    type: structure
    traits:
      smithy.api#error: server
      smithy.api#httpError: 503
`)
	m, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fault, ok := m.Shape(MustShapeID("com.example#Fault"))
	if !ok {
		t.Fatalf("Fault missing")
	}
	if got, _ := fault.TraitNode(MustShapeID("smithy.api#httpError")); got != json.Number("503") {
		t.Fatalf("httpError = %#v", got)
	}
}

func TestModelRejectsDuplicates(t *testing.T) {
	shape := func() *Shape { return &Shape{ID: MustShapeID("a#B"), Type: TypeStructure} }
	if _, err := New(shape(), shape()); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := New(&Shape{ID: MustShapeID("a#B"), Type: "widget"}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
}
