package traits

import (
	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/openapi"
)

// ConstTrait marks a member whose value cannot change.
type ConstTrait struct {
	value  any
	marker bool
}

// NewConstMarker returns the marker form: the member's default is the
// constant.
func NewConstMarker() ConstTrait {
	return ConstTrait{marker: true}
}

// NewConstValue returns the value form carrying the constant itself.
func NewConstValue(value any) ConstTrait {
	return ConstTrait{value: openapi.CloneNode(value)}
}

func newConst(_ model.ShapeID, node any) (Trait, error) {
	if obj, ok := node.(map[string]any); ok && len(obj) == 0 {
		return NewConstMarker(), nil
	}
	return NewConstValue(node), nil
}

// ID implements Trait.
func (ConstTrait) ID() model.ShapeID { return ConstID }

// Node implements Trait.
func (t ConstTrait) Node() any {
	if t.marker {
		return map[string]any{}
	}
	return openapi.CloneNode(t.value)
}

// IsMarker reports whether the trait defers to the member's default.
func (t ConstTrait) IsMarker() bool { return t.marker }

// Value returns the constant carried by the trait. ok is false in marker form.
func (t ConstTrait) Value() (value any, ok bool) {
	if t.marker {
		return nil, false
	}
	return openapi.CloneNode(t.value), true
}

// Resolve returns the constant for a member: the trait's own value, or the
// supplied default in marker form. ok is false when neither exists.
func (t ConstTrait) Resolve(defaultValue any, hasDefault bool) (any, bool) {
	if value, ok := t.Value(); ok {
		return value, true
	}
	if hasDefault {
		return openapi.CloneNode(defaultValue), true
	}
	return nil, false
}

// ConstOf reads the const trait from a member or shape.
func ConstOf(r *Registry, holder model.TraitHolder) (ConstTrait, bool, error) {
	return Lookup[ConstTrait](r, holder, ConstID)
}
