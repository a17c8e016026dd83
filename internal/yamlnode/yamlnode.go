// Package yamlnode converts yaml.v3 node trees into the generic JSON-like
// values used across the module: map[string]any, []any, string, bool, nil and
// json.Number for every numeric scalar.
package yamlnode

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes raw JSON or YAML into a document node.
func Parse(raw []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("yamlnode: empty document")
	}
	return doc.Content[0], nil
}

// Decode parses raw JSON or YAML straight into a generic value.
func Decode(raw []byte) (any, error) {
	node, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return Value(node)
}

// Value converts a node into its generic representation.
func Value(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return Value(node.Content[0])
	case yaml.AliasNode:
		return Value(node.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yamlnode: line %d: mapping keys must be scalars", key.Line)
			}
			value, err := Value(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[key.Value] = value
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := Value(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.ScalarNode:
		return scalar(node)
	default:
		return nil, fmt.Errorf("yamlnode: line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

// Pairs walks a mapping node in declaration order.
func Pairs(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node == nil {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("yamlnode: line %d: expected an object", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the value node stored under key in a mapping node.
func Lookup(node *yaml.Node, key string) (*yaml.Node, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1], true
		}
	}
	return nil, false
}

func scalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		if json.Valid([]byte(node.Value)) {
			return json.Number(node.Value), nil
		}
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, err
		}
		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		if json.Valid([]byte(node.Value)) {
			return json.Number(node.Value), nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("yamlnode: line %d: %q is not representable in JSON", node.Line, node.Value)
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return node.Value, nil
	}
}

// FromValue builds a node tree from a generic value. Objects are emitted with
// sorted keys and json.Number scalars keep their literal text, tagged !!int
// or !!float, so numbers are never quoted on output.
func FromValue(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range keys {
			child, err := FromValue(typed[key])
			if err != nil {
				return nil, fmt.Errorf("yamlnode: key %q: %w", key, err)
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				child,
			)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range typed {
			child, err := FromValue(item)
			if err != nil {
				return nil, fmt.Errorf("yamlnode: index %d: %w", i, err)
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case json.Number:
		return numberNode(typed)
	default:
		node := &yaml.Node{}
		if err := node.Encode(value); err != nil {
			return nil, err
		}
		return node, nil
	}
}

func numberNode(n json.Number) (*yaml.Node, error) {
	text := n.String()
	if _, err := n.Float64(); err != nil {
		return nil, fmt.Errorf("yamlnode: invalid number %q", text)
	}
	tag := "!!int"
	if strings.ContainsAny(text, ".eE") {
		tag = "!!float"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}, nil
}
