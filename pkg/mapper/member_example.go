package mapper

import (
	"context"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/traits"
)

// MemberExampleMapperName identifies the member example synthesizer.
const MemberExampleMapperName = "member-example"

// MemberExampleMapper builds one example per error structure from the const
// and memberExample traits of its members. Errors that declare their own
// errorExample trait are left to ErrorExampleMapper.
type MemberExampleMapper struct{}

var _ Mapper = (*MemberExampleMapper)(nil)

// NewMemberExampleMapper builds the mapper.
func NewMemberExampleMapper() *MemberExampleMapper { return &MemberExampleMapper{} }

// Name implements Mapper.
func (*MemberExampleMapper) Name() string { return MemberExampleMapperName }

// Order implements Mapper.
func (*MemberExampleMapper) Order() int { return 61 }

// UpdateNode implements Mapper.
func (*MemberExampleMapper) UpdateNode(_ context.Context, mc *Context, doc map[string]any) (map[string]any, error) {
	components := map[string]any{}
	refs := make(map[model.ShapeID][]exampleRef)

	for _, shape := range mc.Model.StructureShapes() {
		if !shape.HasTrait(traits.ErrorID) || shape.HasTrait(traits.ErrorExampleID) {
			continue
		}
		b := exampleBuilder{mc: mc, visiting: make(map[model.ShapeID]bool)}
		value, ok, err := b.structure(shape)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		name := shape.ID.Name()
		components[name] = map[string]any{
			"summary": name,
			"value":   value,
		}
		refs[shape.ID] = []exampleRef{{Key: name, Component: name}}
	}
	if len(components) == 0 {
		return doc, nil
	}
	mc.logger().Debug("found error shapes with member examples", "errors", len(components))

	return wireResponses(mc, registerExamples(doc, components), refs)
}

type exampleBuilder struct {
	mc       *Context
	visiting map[model.ShapeID]bool
}

// structure returns the example object for shape. ok is false when no member
// resolves to a value.
func (b exampleBuilder) structure(shape *model.Shape) (map[string]any, bool, error) {
	if b.visiting[shape.ID] {
		return nil, false, nil
	}
	b.visiting[shape.ID] = true
	defer delete(b.visiting, shape.ID)

	r := b.mc.registry()
	out := make(map[string]any)
	for _, member := range shape.Members {
		value, ok, err := b.member(r, member)
		if err != nil {
			return nil, false, err
		}
		if ok {
			out[member.Name] = value
		}
	}
	if len(out) == 0 {
		return nil, false, nil
	}
	return out, true, nil
}

func (b exampleBuilder) member(r *traits.Registry, member *model.Member) (any, bool, error) {
	if constTrait, ok, err := traits.ConstOf(r, member); err != nil {
		return nil, false, err
	} else if ok {
		def, hasDefault, err := traits.DefaultOf(r, member)
		if err != nil {
			return nil, false, err
		}
		if value, ok := constTrait.Resolve(def.Value(), hasDefault); ok {
			return value, true, nil
		}
	}
	if example, ok, err := traits.MemberExampleOf(r, member); err != nil {
		return nil, false, err
	} else if ok {
		return example.Value(), true, nil
	}

	target, ok := b.mc.Model.Shape(member.Target)
	if !ok {
		return nil, false, nil
	}
	switch {
	case target.IsStructure():
		value, ok, err := b.structure(target)
		if err != nil || !ok {
			return nil, false, err
		}
		return value, true, nil
	case target.IsList() && target.Member != nil:
		item, ok := b.mc.Model.Shape(target.Member.Target)
		if !ok || !item.IsStructure() {
			return nil, false, nil
		}
		value, ok, err := b.structure(item)
		if err != nil || !ok {
			return nil, false, err
		}
		return []any{value}, true, nil
	}
	return nil, false, nil
}
