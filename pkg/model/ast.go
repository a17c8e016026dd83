package model

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-errorspec/internal/yamlnode"
)

// Parse decodes a Smithy JSON AST document, JSON or YAML encoded:
//
//	{"smithy": "2.0", "shapes": {"example#Name": {"type": "structure", ...}}}
//
// "apply" entries merge their traits onto the target shape or member once all
// shapes are known.
func Parse(raw []byte) (*Model, error) {
	root, err := yamlnode.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("model: decode: %w", err)
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("model: document root must be an object")
	}

	version, ok := yamlnode.Lookup(root, "smithy")
	if !ok || version.Value == "" {
		return nil, errors.New(`model: missing "smithy" version`)
	}

	m := &Model{shapes: make(map[ShapeID]*Shape)}
	shapesNode, ok := yamlnode.Lookup(root, "shapes")
	if !ok {
		return m, nil
	}

	type pendingApply struct {
		target ShapeID
		traits map[ShapeID]any
	}
	var applies []pendingApply

	err = yamlnode.Pairs(shapesNode, func(key string, value *yaml.Node) error {
		id, err := ParseShapeID(key)
		if err != nil {
			return err
		}
		typeNode, ok := yamlnode.Lookup(value, "type")
		if !ok {
			return fmt.Errorf("model: shape %s: missing type", id)
		}
		if typeNode.Value == "apply" {
			traits, err := parseTraits(value)
			if err != nil {
				return fmt.Errorf("model: apply %s: %w", id, err)
			}
			applies = append(applies, pendingApply{target: id, traits: traits})
			return nil
		}
		if id.HasMember() {
			return fmt.Errorf("model: shape key %s must not address a member", id)
		}
		shape, err := parseShape(id, ShapeType(typeNode.Value), value)
		if err != nil {
			return fmt.Errorf("model: shape %s: %w", id, err)
		}
		return m.add(shape)
	})
	if err != nil {
		return nil, err
	}

	for _, apply := range applies {
		if err := m.applyTraits(apply.target, apply.traits); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Model) applyTraits(target ShapeID, traits map[ShapeID]any) error {
	shape, ok := m.shapes[target.WithoutMember()]
	if !ok {
		return fmt.Errorf("%w: apply target %s", ErrShapeNotFound, target)
	}
	dest := &shape.Traits
	if target.HasMember() {
		member, ok := shape.MemberByName(target.Member())
		if !ok {
			return fmt.Errorf("%w: apply target %s", ErrShapeNotFound, target)
		}
		dest = &member.Traits
	}
	if *dest == nil {
		*dest = make(map[ShapeID]any, len(traits))
	}
	for id, node := range traits {
		(*dest)[id] = node
	}
	return nil
}

func parseShape(id ShapeID, typ ShapeType, node *yaml.Node) (*Shape, error) {
	if _, ok := knownTypes[typ]; !ok {
		return nil, fmt.Errorf("unsupported type %q", typ)
	}
	traits, err := parseTraits(node)
	if err != nil {
		return nil, err
	}
	shape := &Shape{ID: id, Type: typ, Traits: traits}

	switch typ {
	case TypeStructure, TypeUnion, TypeEnum, TypeIntEnum:
		if membersNode, ok := yamlnode.Lookup(node, "members"); ok {
			err := yamlnode.Pairs(membersNode, func(name string, value *yaml.Node) error {
				member, err := parseMember(id, name, value)
				if err != nil {
					return err
				}
				shape.Members = append(shape.Members, member)
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	case TypeList, TypeSet:
		if shape.Member, err = requiredMember(id, "member", node); err != nil {
			return nil, err
		}
	case TypeMap:
		if shape.Key, err = requiredMember(id, "key", node); err != nil {
			return nil, err
		}
		if shape.Member, err = requiredMember(id, "value", node); err != nil {
			return nil, err
		}
	case TypeOperation:
		if shape.Input, err = optionalTarget(node, "input"); err != nil {
			return nil, err
		}
		if shape.Output, err = optionalTarget(node, "output"); err != nil {
			return nil, err
		}
		if shape.Errors, err = targetList(node, "errors"); err != nil {
			return nil, err
		}
	case TypeService:
		if versionNode, ok := yamlnode.Lookup(node, "version"); ok {
			shape.Version = versionNode.Value
		}
		if shape.Operations, err = targetList(node, "operations"); err != nil {
			return nil, err
		}
		if shape.Resources, err = targetList(node, "resources"); err != nil {
			return nil, err
		}
		if shape.Errors, err = targetList(node, "errors"); err != nil {
			return nil, err
		}
	case TypeResource:
		if shape.Operations, err = targetList(node, "operations"); err != nil {
			return nil, err
		}
		if shape.CollectionOperations, err = targetList(node, "collectionOperations"); err != nil {
			return nil, err
		}
		if shape.Resources, err = targetList(node, "resources"); err != nil {
			return nil, err
		}
		for _, name := range lifecycleNames {
			target, err := optionalTarget(node, name)
			if err != nil {
				return nil, err
			}
			if target.IsZero() {
				continue
			}
			if shape.Lifecycle == nil {
				shape.Lifecycle = make(map[string]ShapeID)
			}
			shape.Lifecycle[name] = target
		}
	}
	return shape, nil
}

func parseMember(container ShapeID, name string, node *yaml.Node) (*Member, error) {
	target, err := targetOf(node)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", name, err)
	}
	traits, err := parseTraits(node)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", name, err)
	}
	return &Member{
		ID:     container.WithMember(name),
		Name:   name,
		Target: target,
		Traits: traits,
	}, nil
}

func requiredMember(container ShapeID, name string, node *yaml.Node) (*Member, error) {
	memberNode, ok := yamlnode.Lookup(node, name)
	if !ok {
		return nil, fmt.Errorf("missing %s", name)
	}
	return parseMember(container, name, memberNode)
}

// optionalTarget reads {"target": "ns#Name"} stored under key.
func optionalTarget(node *yaml.Node, key string) (ShapeID, error) {
	ref, ok := yamlnode.Lookup(node, key)
	if !ok {
		return ShapeID{}, nil
	}
	return targetOf(ref)
}

func targetOf(ref *yaml.Node) (ShapeID, error) {
	target, ok := yamlnode.Lookup(ref, "target")
	if !ok {
		return ShapeID{}, fmt.Errorf("line %d: reference is missing target", ref.Line)
	}
	return ParseShapeID(target.Value)
}

func targetList(node *yaml.Node, key string) ([]ShapeID, error) {
	list, ok := yamlnode.Lookup(node, key)
	if !ok {
		return nil, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s must be a list", key)
	}
	out := make([]ShapeID, 0, len(list.Content))
	for _, ref := range list.Content {
		id, err := targetOf(ref)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func parseTraits(node *yaml.Node) (map[ShapeID]any, error) {
	traitsNode, ok := yamlnode.Lookup(node, "traits")
	if !ok {
		return nil, nil
	}
	traits := make(map[ShapeID]any)
	err := yamlnode.Pairs(traitsNode, func(key string, value *yaml.Node) error {
		id, err := ParseShapeID(key)
		if err != nil {
			return fmt.Errorf("trait: %w", err)
		}
		decoded, err := yamlnode.Value(value)
		if err != nil {
			return fmt.Errorf("trait %s: %w", id, err)
		}
		traits[id] = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return traits, nil
}
