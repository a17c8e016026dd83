package mapper

import (
	"context"
	"strings"

	"github.com/goliatone/go-errorspec/pkg/openapi"
	"github.com/goliatone/go-errorspec/pkg/traits"
)

// ConstMapperName identifies the const rewriter.
const ConstMapperName = "const"

// DefaultSchemaSuffixes are stripped from synthetic schema names when looking
// up the structure a schema was generated from.
var DefaultSchemaSuffixes = []string{"ResponseContent", "RequestContent"}

// ConstOption configures a ConstMapper.
type ConstOption func(*ConstMapper)

// WithSchemaSuffixes replaces the suffix list. An empty list disables
// suffix stripping.
func WithSchemaSuffixes(suffixes ...string) ConstOption {
	return func(m *ConstMapper) {
		m.suffixes = append([]string(nil), suffixes...)
	}
}

// ConstMapper turns "default" into "const" for schema properties generated
// from members carrying the const trait.
type ConstMapper struct {
	suffixes []string
}

var _ Mapper = (*ConstMapper)(nil)

// NewConstMapper builds the mapper.
func NewConstMapper(options ...ConstOption) *ConstMapper {
	m := &ConstMapper{suffixes: append([]string(nil), DefaultSchemaSuffixes...)}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Name implements Mapper.
func (m *ConstMapper) Name() string { return ConstMapperName }

// Order implements Mapper.
func (m *ConstMapper) Order() int { return 50 }

// UpdateNode implements Mapper. Only components.schemas is modified.
func (m *ConstMapper) UpdateNode(_ context.Context, mc *Context, doc map[string]any) (map[string]any, error) {
	constMembers := make(map[string]traits.ConstTrait)
	for _, shape := range mc.Model.StructureShapes() {
		for _, member := range shape.Members {
			trait, ok, err := traits.ConstOf(mc.registry(), member)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			key := shape.ID.Name() + "." + member.Name
			constMembers[key] = trait
			mc.logger().Debug("found const member", "member", key)
		}
	}
	if len(constMembers) == 0 {
		return doc, nil
	}

	schemas, ok := openapi.Object(openapi.ObjectOrEmpty(doc, "components"), "schemas")
	if !ok {
		return doc, nil
	}
	out := openapi.CloneObject(doc)
	updated := openapi.CloneObject(schemas)
	for name, rawSchema := range updated {
		schema, ok := rawSchema.(map[string]any)
		if !ok {
			continue
		}
		updated[name] = m.rewriteSchema(mc, name, schema, constMembers)
	}
	components := openapi.CloneObject(openapi.ObjectOrEmpty(out, "components"))
	components["schemas"] = updated
	out["components"] = components
	return out, nil
}

func (m *ConstMapper) rewriteSchema(mc *Context, name string, schema map[string]any, constMembers map[string]traits.ConstTrait) map[string]any {
	properties, ok := openapi.Object(schema, "properties")
	if !ok {
		return schema
	}
	base := m.baseName(name)
	for prop, rawProp := range properties {
		propSchema, ok := rawProp.(map[string]any)
		if !ok {
			continue
		}
		trait, found := constMembers[name+"."+prop]
		if !found {
			trait, found = constMembers[base+"."+prop]
		}
		if !found {
			continue
		}
		defaultValue, hasDefault := propSchema["default"]
		if !hasDefault {
			continue
		}
		value, _ := trait.Resolve(defaultValue, true)
		delete(propSchema, "default")
		propSchema["const"] = value
		mc.logger().Debug("rewrote default to const", "schema", name, "property", prop)
	}
	return schema
}

func (m *ConstMapper) baseName(name string) string {
	for _, suffix := range m.suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}
