package mapper

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/testsupport"
	"github.com/goliatone/go-errorspec/pkg/traits"
)

func ref(component string) map[string]any {
	return map[string]any{"$ref": "#/components/examples/" + component}
}

func TestErrorExampleMapperRegistersComponents(t *testing.T) {
	t.Parallel()

	out, err := NewErrorExampleMapper().UpdateNode(context.Background(), bankContext(t), bankDocument(t))
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}

	examples := testsupport.Object(t, out, "components", "examples")
	want := map[string]any{
		"Existing": map[string]any{"summary": "Existing", "value": map[string]any{"ok": true}},
		"TransferLimitExceededExample1": map[string]any{
			"summary":     "Daily limit",
			"description": "The daily limit was reached.",
			"value": map[string]any{
				"code":       "TRANSFER_LIMIT_EXCEEDED",
				"attributes": map[string]any{"amount": json.Number("1500.5"), "currency": "EUR"},
			},
		},
		"TransferLimitExceededExample2": map[string]any{
			"summary": "Monthly limit",
			"value": map[string]any{
				"code":       "TRANSFER_LIMIT_EXCEEDED",
				"attributes": map[string]any{"amount": json.Number("90000"), "currency": "EUR"},
			},
		},
	}
	if diff := cmp.Diff(want, examples); diff != "" {
		t.Fatalf("components.examples mismatch (-want +got):\n%s", diff)
	}

	media := testsupport.Object(t, out, "paths", "/transfers", "post", "responses", "422", "content", "application/problem+json")
	wantRefs := map[string]any{
		"TransferLimitExceeded1": ref("TransferLimitExceededExample1"),
		"TransferLimitExceeded2": ref("TransferLimitExceededExample2"),
	}
	if diff := cmp.Diff(wantRefs, media["examples"]); diff != "" {
		t.Fatalf("422 examples mismatch (-want +got):\n%s", diff)
	}

	forbidden := testsupport.Object(t, out, "paths", "/transfers", "post", "responses", "403", "content", "application/problem+json", "examples")
	if _, ok := forbidden["TransferLimitExceeded1"]; ok {
		t.Fatalf("422 examples leaked into 403: %v", forbidden)
	}
}

func TestErrorExampleMapperSingleEntryKeys(t *testing.T) {
	t.Parallel()

	entry, err := traits.NewErrorExampleEntry("Only", "", map[string]any{"code": "X"})
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	m := model.MustNew(
		&model.Shape{
			ID:   model.MustShapeID("com.example#Svc"),
			Type: model.TypeService,
			Operations: []model.ShapeID{
				model.MustShapeID("com.example#Op"),
			},
		},
		&model.Shape{
			ID:     model.MustShapeID("com.example#Op"),
			Type:   model.TypeOperation,
			Errors: []model.ShapeID{model.MustShapeID("com.example#Oops")},
			Traits: map[model.ShapeID]any{traits.HTTPID: map[string]any{"method": "get", "uri": "/op"}},
		},
		&model.Shape{
			ID:   model.MustShapeID("com.example#Oops"),
			Type: model.TypeStructure,
			Traits: map[model.ShapeID]any{
				traits.ErrorID:        "client",
				traits.ErrorExampleID: traits.NewErrorExampleBuilder().AddExample(entry).Build().Node(),
			},
		},
	)
	doc := map[string]any{
		"paths": map[string]any{
			"/op": map[string]any{
				"GET": map[string]any{
					"responses": map[string]any{
						"400": map[string]any{
							"content": map[string]any{"application/json": map[string]any{}},
						},
					},
				},
			},
		},
	}
	out, err := NewErrorExampleMapper().UpdateNode(context.Background(), &Context{Model: m}, doc)
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if _, ok := testsupport.Object(t, out, "components", "examples")["OopsExample"]; !ok {
		t.Fatalf("expected OopsExample component")
	}
	got := testsupport.Node(t, out, "paths", "/op", "GET", "responses", "400", "content", "application/json", "examples")
	if diff := cmp.Diff(map[string]any{"Oops": ref("OopsExample")}, got); diff != "" {
		t.Fatalf("examples mismatch (-want +got):\n%s", diff)
	}
}

func TestMemberExampleMapperBuildsNestedExamples(t *testing.T) {
	t.Parallel()

	out, err := NewMemberExampleMapper().UpdateNode(context.Background(), bankContext(t), bankDocument(t))
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}

	examples := testsupport.Object(t, out, "components", "examples")
	want := map[string]any{
		"Existing": map[string]any{"summary": "Existing", "value": map[string]any{"ok": true}},
		"AccountSuspended": map[string]any{
			"summary": "AccountSuspended",
			"value": map[string]any{
				"code":       "ACCOUNT_SUSPENDED",
				"attributes": map[string]any{"reason": "Fraud review"},
			},
		},
		"ValidationError": map[string]any{
			"summary": "ValidationError",
			"value": map[string]any{
				"type":   "/errors/types/validation",
				"status": json.Number("400"),
				"title":  "Validation Problem",
				"errors": []any{
					map[string]any{"code": "missing_value", "ref": "#/amount"},
				},
			},
		},
		"ServerFault": map[string]any{
			"summary": "ServerFault",
			"value":   map[string]any{"message": "Try again later"},
		},
	}
	if diff := cmp.Diff(want, examples); diff != "" {
		t.Fatalf("components.examples mismatch (-want +got):\n%s", diff)
	}
}

func TestMemberExampleMapperWiresResponses(t *testing.T) {
	t.Parallel()

	doc := bankDocument(t)
	out, err := NewMemberExampleMapper().UpdateNode(context.Background(), bankContext(t), doc)
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}

	cases := []struct {
		name string
		path []string
		want map[string]any
	}{
		{
			name: "transfer 400",
			path: []string{"paths", "/transfers", "post", "responses", "400", "content", "application/problem+json", "examples"},
			want: map[string]any{"ValidationError": ref("ValidationError")},
		},
		{
			name: "transfer 403 keeps existing examples",
			path: []string{"paths", "/transfers", "post", "responses", "403", "content", "application/problem+json", "examples"},
			want: map[string]any{
				"Legacy":           map[string]any{"summary": "Legacy", "value": map[string]any{"code": "LEGACY"}},
				"AccountSuspended": ref("AccountSuspended"),
			},
		},
		{
			name: "error union wrapper",
			path: []string{"paths", "/accounts/{id}", "get", "responses", "403", "content", "application/json", "examples"},
			want: map[string]any{"AccountSuspended": ref("AccountSuspended")},
		},
		{
			name: "direct union member",
			path: []string{"paths", "/accounts/{id}", "get", "responses", "503", "content", "application/json", "examples"},
			want: map[string]any{"ServerFault": ref("ServerFault")},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := testsupport.Node(t, out, tc.path...)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("examples mismatch (-want +got):\n%s", diff)
			}
		})
	}

	unchanged := [][]string{
		{"paths", "/accounts/{id}", "get", "responses", "500"},
		{"paths", "/accounts/{id}", "parameters"},
		{"paths", "/ping"},
		{"paths", "/transfers", "post", "responses", "422"},
		{"paths", "/transfers", "post", "responses", "201"},
	}
	for _, path := range unchanged {
		if diff := cmp.Diff(testsupport.Node(t, doc, path...), testsupport.Node(t, out, path...)); diff != "" {
			t.Fatalf("%v changed (-want +got):\n%s", path, diff)
		}
	}
}

func TestMemberExampleMapperTerminatesOnCycles(t *testing.T) {
	t.Parallel()

	node := model.MustShapeID("com.example#TreeError")
	m := model.MustNew(&model.Shape{
		ID:     node,
		Type:   model.TypeStructure,
		Traits: map[model.ShapeID]any{traits.ErrorID: "client"},
		Members: []*model.Member{
			{Name: "child", Target: node},
			{Name: "label", Target: model.MustShapeID("smithy.api#String"), Traits: map[model.ShapeID]any{
				traits.MemberExampleID: "leaf",
			}},
		},
	})
	out, err := NewMemberExampleMapper().UpdateNode(context.Background(), &Context{Model: m}, map[string]any{})
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	got := testsupport.Node(t, out, "components", "examples", "TreeError", "value")
	if diff := cmp.Diff(map[string]any{"label": "leaf"}, got); diff != "" {
		t.Fatalf("example mismatch (-want +got):\n%s", diff)
	}
}

func TestMemberExampleMapperSkipsErrorsWithoutValues(t *testing.T) {
	t.Parallel()

	m := model.MustNew(&model.Shape{
		ID:     model.MustShapeID("com.example#Bare"),
		Type:   model.TypeStructure,
		Traits: map[model.ShapeID]any{traits.ErrorID: "server"},
		Members: []*model.Member{
			{Name: "message", Target: model.MustShapeID("smithy.api#String")},
		},
	})
	doc := map[string]any{"openapi": "3.0.2"}
	out, err := NewMemberExampleMapper().UpdateNode(context.Background(), &Context{Model: m}, doc)
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if diff := cmp.Diff(doc, out); diff != "" {
		t.Fatalf("expected no change (-want +got):\n%s", diff)
	}
}

func TestWiringRequiresServiceWhenAmbiguous(t *testing.T) {
	t.Parallel()

	m := model.MustNew(
		&model.Shape{ID: model.MustShapeID("com.example#A"), Type: model.TypeService},
		&model.Shape{ID: model.MustShapeID("com.example#B"), Type: model.TypeService},
		&model.Shape{
			ID:     model.MustShapeID("com.example#E"),
			Type:   model.TypeStructure,
			Traits: map[model.ShapeID]any{traits.ErrorID: "client"},
			Members: []*model.Member{{
				Name:   "code",
				Target: model.MustShapeID("smithy.api#String"),
				Traits: map[model.ShapeID]any{traits.MemberExampleID: "E"},
			}},
		},
	)
	_, err := NewMemberExampleMapper().UpdateNode(context.Background(), &Context{Model: m}, map[string]any{})
	if err == nil {
		t.Fatalf("expected ambiguous service error")
	}
	_, err = NewMemberExampleMapper().UpdateNode(context.Background(), &Context{
		Model:   m,
		Service: model.MustShapeID("com.example#A"),
	}, map[string]any{})
	if err != nil {
		t.Fatalf("explicit service: %v", err)
	}
}

func TestSanitizeDocumentation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "markup", in: "  Use <a href=\"x\">this</a> &amp; that<script>x()</script> ", want: "Use this & that"},
		{name: "quotes", in: "It&#39;s \"fine\"", want: `It's "fine"`},
		{name: "double escaped", in: "Literal &amp;lt;b&amp;gt; tag", want: "Literal &lt;b&gt; tag"},
		{name: "blank", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeDocumentation(tt.in); got != tt.want {
				t.Fatalf("sanitizeDocumentation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeDocumentationDropsEscapedScript(t *testing.T) {
	t.Parallel()

	got := sanitizeDocumentation("See &lt;script&gt;alert(1)&lt;/script&gt; docs")
	if strings.Contains(got, "<") || strings.Contains(got, "alert") {
		t.Fatalf("escaped script survived sanitizing: %q", got)
	}
	if !strings.HasPrefix(got, "See") || !strings.HasSuffix(got, "docs") {
		t.Fatalf("surrounding text lost: %q", got)
	}
}
