package model

import (
	"fmt"
	"strings"
)

// PreludeNamespace hosts the built-in simple shapes and traits.
const PreludeNamespace = "smithy.api"

// ShapeID is an absolute shape identifier, "namespace#Name" with an optional
// "$member" suffix. The zero value is the empty ID.
type ShapeID struct {
	namespace string
	name      string
	member    string
}

// ParseShapeID parses an absolute shape ID.
func ParseShapeID(raw string) (ShapeID, error) {
	trimmed := strings.TrimSpace(raw)
	hash := strings.IndexByte(trimmed, '#')
	if hash <= 0 || hash == len(trimmed)-1 {
		return ShapeID{}, fmt.Errorf("model: invalid shape id %q: expected namespace#Name", raw)
	}

	id := ShapeID{namespace: trimmed[:hash]}
	rest := trimmed[hash+1:]
	if dollar := strings.IndexByte(rest, '$'); dollar >= 0 {
		if dollar == 0 || dollar == len(rest)-1 {
			return ShapeID{}, fmt.Errorf("model: invalid shape id %q: malformed member", raw)
		}
		id.name, id.member = rest[:dollar], rest[dollar+1:]
	} else {
		id.name = rest
	}
	if strings.ContainsAny(id.name, "#$") || strings.ContainsAny(id.member, "#$") {
		return ShapeID{}, fmt.Errorf("model: invalid shape id %q", raw)
	}
	return id, nil
}

// MustShapeID panics when raw is not a valid shape ID. Intended for constants
// and tests.
func MustShapeID(raw string) ShapeID {
	id, err := ParseShapeID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// Namespace returns the namespace part.
func (id ShapeID) Namespace() string { return id.namespace }

// Name returns the shape name without namespace or member.
func (id ShapeID) Name() string { return id.name }

// Member returns the member name, empty for non-member IDs.
func (id ShapeID) Member() string { return id.member }

// HasMember reports whether the ID addresses a member.
func (id ShapeID) HasMember() bool { return id.member != "" }

// IsZero reports whether the ID is empty.
func (id ShapeID) IsZero() bool { return id == ShapeID{} }

// WithMember returns the member ID under the same shape.
func (id ShapeID) WithMember(member string) ShapeID {
	return ShapeID{namespace: id.namespace, name: id.name, member: member}
}

// WithoutMember returns the container shape ID.
func (id ShapeID) WithoutMember() ShapeID {
	return ShapeID{namespace: id.namespace, name: id.name}
}

func (id ShapeID) String() string {
	if id.IsZero() {
		return ""
	}
	if id.member == "" {
		return id.namespace + "#" + id.name
	}
	return id.namespace + "#" + id.name + "$" + id.member
}

// MarshalText implements encoding.TextMarshaler.
func (id ShapeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ShapeID) UnmarshalText(text []byte) error {
	parsed, err := ParseShapeID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
