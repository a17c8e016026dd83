package traits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/openapi"
)

// MemberExampleTrait carries an example value for a structure member. A const
// trait on the same member takes precedence.
type MemberExampleTrait struct {
	value any
}

// NewMemberExample wraps an example value.
func NewMemberExample(value any) MemberExampleTrait {
	return MemberExampleTrait{value: openapi.CloneNode(value)}
}

func newMemberExample(_ model.ShapeID, node any) (Trait, error) {
	return NewMemberExample(node), nil
}

// ID implements Trait.
func (MemberExampleTrait) ID() model.ShapeID { return MemberExampleID }

// Node implements Trait.
func (t MemberExampleTrait) Node() any { return openapi.CloneNode(t.value) }

// Value returns the example value.
func (t MemberExampleTrait) Value() any { return openapi.CloneNode(t.value) }

// MemberExampleOf reads the memberExample trait from a member.
func MemberExampleOf(r *Registry, holder model.TraitHolder) (MemberExampleTrait, bool, error) {
	return Lookup[MemberExampleTrait](r, holder, MemberExampleID)
}

// ErrorExampleEntry is one example declared by an errorExample trait.
type ErrorExampleEntry struct {
	title         string
	documentation string
	content       map[string]any
}

// NewErrorExampleEntry validates and builds an entry. Title and content are
// required; documentation is optional.
func NewErrorExampleEntry(title, documentation string, content map[string]any) (ErrorExampleEntry, error) {
	if strings.TrimSpace(title) == "" {
		return ErrorExampleEntry{}, errors.New("traits: error example title is required")
	}
	if content == nil {
		return ErrorExampleEntry{}, errors.New("traits: error example content is required")
	}
	return ErrorExampleEntry{
		title:         title,
		documentation: documentation,
		content:       openapi.CloneObject(content),
	}, nil
}

// Title returns the example title.
func (e ErrorExampleEntry) Title() string { return e.title }

// Documentation returns the optional documentation string.
func (e ErrorExampleEntry) Documentation() (string, bool) {
	return e.documentation, e.documentation != ""
}

// Content returns a copy of the example body.
func (e ErrorExampleEntry) Content() map[string]any { return openapi.CloneObject(e.content) }

func (e ErrorExampleEntry) node() map[string]any {
	out := map[string]any{
		"title":   e.title,
		"content": e.Content(),
	}
	if e.documentation != "" {
		out["documentation"] = e.documentation
	}
	return out
}

// ErrorExampleTrait lists the examples of an error structure.
type ErrorExampleTrait struct {
	examples []ErrorExampleEntry
}

// ErrorExampleBuilder accumulates entries for an ErrorExampleTrait.
type ErrorExampleBuilder struct {
	examples []ErrorExampleEntry
}

// NewErrorExampleBuilder starts an empty builder.
func NewErrorExampleBuilder() *ErrorExampleBuilder {
	return &ErrorExampleBuilder{}
}

// AddExample appends one entry.
func (b *ErrorExampleBuilder) AddExample(entry ErrorExampleEntry) *ErrorExampleBuilder {
	b.examples = append(b.examples, entry)
	return b
}

// Examples replaces every entry.
func (b *ErrorExampleBuilder) Examples(entries []ErrorExampleEntry) *ErrorExampleBuilder {
	b.examples = append([]ErrorExampleEntry(nil), entries...)
	return b
}

// Build returns the trait.
func (b *ErrorExampleBuilder) Build() ErrorExampleTrait {
	return ErrorExampleTrait{examples: append([]ErrorExampleEntry(nil), b.examples...)}
}

// ToBuilder returns a builder seeded with the trait's entries.
func (t ErrorExampleTrait) ToBuilder() *ErrorExampleBuilder {
	return NewErrorExampleBuilder().Examples(t.examples)
}

func newErrorExample(_ model.ShapeID, node any) (Trait, error) {
	list, ok := node.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", node)
	}
	builder := NewErrorExampleBuilder()
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("example %d: expected an object, got %T", i, item)
		}
		title, ok := obj["title"].(string)
		if !ok {
			return nil, fmt.Errorf("example %d: title must be a string", i)
		}
		content, ok := obj["content"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("example %d: content must be an object", i)
		}
		var documentation string
		if raw, present := obj["documentation"]; present {
			documentation, ok = raw.(string)
			if !ok {
				return nil, fmt.Errorf("example %d: documentation must be a string", i)
			}
		}
		entry, err := NewErrorExampleEntry(title, documentation, content)
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		builder.AddExample(entry)
	}
	return builder.Build(), nil
}

// ID implements Trait.
func (ErrorExampleTrait) ID() model.ShapeID { return ErrorExampleID }

// Node implements Trait.
func (t ErrorExampleTrait) Node() any {
	out := make([]any, 0, len(t.examples))
	for _, entry := range t.examples {
		out = append(out, entry.node())
	}
	return out
}

// Examples returns the declared entries in order.
func (t ErrorExampleTrait) Examples() []ErrorExampleEntry {
	return append([]ErrorExampleEntry(nil), t.examples...)
}

// Len returns the number of entries.
func (t ErrorExampleTrait) Len() int { return len(t.examples) }

// ErrorExampleOf reads the errorExample trait from a shape.
func ErrorExampleOf(r *Registry, holder model.TraitHolder) (ErrorExampleTrait, bool, error) {
	return Lookup[ErrorExampleTrait](r, holder, ErrorExampleID)
}
