package mapper

import (
	"context"
	"strconv"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/traits"
)

// ErrorExampleMapperName identifies the errorExample synthesizer.
const ErrorExampleMapperName = "error-example"

// ErrorExampleMapper registers the examples declared by errorExample traits
// and references them from the error responses of each operation.
type ErrorExampleMapper struct{}

var _ Mapper = (*ErrorExampleMapper)(nil)

// NewErrorExampleMapper builds the mapper.
func NewErrorExampleMapper() *ErrorExampleMapper { return &ErrorExampleMapper{} }

// Name implements Mapper.
func (*ErrorExampleMapper) Name() string { return ErrorExampleMapperName }

// Order implements Mapper.
func (*ErrorExampleMapper) Order() int { return 60 }

// UpdateNode implements Mapper.
func (*ErrorExampleMapper) UpdateNode(_ context.Context, mc *Context, doc map[string]any) (map[string]any, error) {
	components := map[string]any{}
	refs := make(map[model.ShapeID][]exampleRef)

	for _, shape := range mc.Model.StructureShapes() {
		if !shape.HasTrait(traits.ErrorID) {
			continue
		}
		trait, ok, err := traits.ErrorExampleOf(mc.registry(), shape)
		if err != nil {
			return nil, err
		}
		if !ok || trait.Len() == 0 {
			continue
		}
		name := shape.ID.Name()
		multiple := trait.Len() > 1
		for i, entry := range trait.Examples() {
			component, key := name+"Example", name
			if multiple {
				suffix := strconv.Itoa(i + 1)
				component, key = component+suffix, key+suffix
			}
			example := map[string]any{
				"summary": entry.Title(),
				"value":   entry.Content(),
			}
			if doc, ok := entry.Documentation(); ok {
				if description := sanitizeDocumentation(doc); description != "" {
					example["description"] = description
				}
			}
			components[component] = example
			refs[shape.ID] = append(refs[shape.ID], exampleRef{Key: key, Component: component})
		}
	}
	if len(components) == 0 {
		return doc, nil
	}
	mc.logger().Debug("found error examples", "errors", len(refs), "examples", len(components))

	return wireResponses(mc, registerExamples(doc, components), refs)
}
