package model

import (
	"encoding/json"
	"testing"
)

func TestParseShapeID(t *testing.T) {
	tests := []struct {
		raw       string
		namespace string
		name      string
		member    string
		wantErr   bool
	}{
		{raw: "com.example#Shop", namespace: "com.example", name: "Shop"},
		{raw: " com.example#Shop$id ", namespace: "com.example", name: "Shop", member: "id"},
		{raw: "Shop", wantErr: true},
		{raw: "#Shop", wantErr: true},
		{raw: "com.example#", wantErr: true},
		{raw: "com.example#Shop$", wantErr: true},
		{raw: "com.example#$id", wantErr: true},
		{raw: "com.example#Shop$a$b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := ParseShapeID(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseShapeID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if id.Namespace() != tt.namespace || id.Name() != tt.name || id.Member() != tt.member {
				t.Fatalf("ParseShapeID(%q) = %#v", tt.raw, id)
			}
		})
	}
}

func TestShapeIDMembers(t *testing.T) {
	id := MustShapeID("com.example#Shop")
	member := id.WithMember("id")
	if member.String() != "com.example#Shop$id" || !member.HasMember() {
		t.Fatalf("WithMember = %v", member)
	}
	if member.WithoutMember() != id {
		t.Fatalf("WithoutMember = %v", member.WithoutMember())
	}
	if (ShapeID{}).String() != "" || !(ShapeID{}).IsZero() {
		t.Fatalf("zero id should be empty")
	}
}

func TestShapeIDText(t *testing.T) {
	in := map[ShapeID]string{MustShapeID("a#B"): "x"}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `{"a#B":"x"}` {
		t.Fatalf("Marshal = %s", raw)
	}

	var out map[ShapeID]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out[MustShapeID("a#B")] != "x" {
		t.Fatalf("Unmarshal = %v", out)
	}

	var bad ShapeID
	if err := bad.UnmarshalText([]byte("nope")); err == nil {
		t.Fatalf("expected error")
	}
}
