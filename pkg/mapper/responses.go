package mapper

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/openapi"
	"github.com/goliatone/go-errorspec/pkg/traits"
)

const examplesRefPrefix = "#/components/examples/"

// errorUnionMember names the member of a synthetic wrapper structure that
// targets the union of errors sharing one status code.
const errorUnionMember = "errorUnion"

var httpMethods = map[string]struct{}{
	"get": {}, "put": {}, "post": {}, "delete": {}, "options": {},
	"head": {}, "patch": {}, "trace": {},
}

// exampleRef links a response example key to a components.examples entry.
type exampleRef struct {
	Key       string
	Component string
}

// registerExamples merges components into components.examples, keeping any
// entries the document already has under other keys.
func registerExamples(doc map[string]any, components map[string]any) map[string]any {
	out := openapi.CloneObject(doc)
	comps := openapi.CloneObject(openapi.ObjectOrEmpty(out, "components"))
	existing := openapi.ObjectOrEmpty(comps, "examples")
	comps["examples"] = openapi.MergeObjects(existing, components)
	out["components"] = comps
	return out
}

// resolveService returns the service whose operations are wired. A zero
// service ID is accepted when the model declares exactly one service.
func resolveService(mc *Context) (*model.Shape, bool, error) {
	if !mc.Service.IsZero() {
		shape, err := mc.Model.ExpectShape(mc.Service)
		if err != nil {
			return nil, false, err
		}
		if !shape.IsService() {
			return nil, false, fmt.Errorf("%s is a %s, not a service", mc.Service, shape.Type)
		}
		return shape, true, nil
	}
	services := mc.Model.Services()
	switch len(services) {
	case 0:
		return nil, false, nil
	case 1:
		return services[0], true, nil
	default:
		return nil, false, errors.New("model declares several services; a service id is required")
	}
}

// wireResponses adds $ref examples to every error response of every
// operation bound to the service.
func wireResponses(mc *Context, doc map[string]any, refs map[model.ShapeID][]exampleRef) (map[string]any, error) {
	service, ok, err := resolveService(mc)
	if err != nil {
		return nil, err
	}
	if !ok {
		mc.logger().Debug("no service in model, skipping response wiring")
		return doc, nil
	}
	operations, err := mc.Model.ServiceOperations(service.ID)
	if err != nil {
		return nil, err
	}

	paths, ok := openapi.Object(doc, "paths")
	if !ok {
		return doc, nil
	}
	updatedPaths := make(map[string]any, len(paths))
	for path, rawItem := range paths {
		item, ok := rawItem.(map[string]any)
		if !ok {
			updatedPaths[path] = openapi.CloneNode(rawItem)
			continue
		}
		updatedItem := make(map[string]any, len(item))
		for method, rawOp := range item {
			op, isObject := rawOp.(map[string]any)
			_, isMethod := httpMethods[strings.ToLower(method)]
			if !isObject || !isMethod {
				updatedItem[method] = openapi.CloneNode(rawOp)
				continue
			}
			shape, err := findOperation(mc, operations, path, method)
			if err != nil {
				return nil, err
			}
			if shape == nil {
				updatedItem[method] = openapi.CloneObject(op)
				continue
			}
			updated, err := updateOperationResponses(mc, op, shape, refs)
			if err != nil {
				return nil, fmt.Errorf("operation %s: %w", shape.ID, err)
			}
			updatedItem[method] = updated
		}
		updatedPaths[path] = updatedItem
	}

	out := openapi.CloneObject(doc)
	out["paths"] = updatedPaths
	return out, nil
}

func findOperation(mc *Context, operations []*model.Shape, path, method string) (*model.Shape, error) {
	for _, op := range operations {
		binding, ok, err := traits.HTTPOf(mc.registry(), op)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if strings.EqualFold(binding.Method(), method) && binding.Path() == path {
			return op, nil
		}
	}
	return nil, nil
}

func updateOperationResponses(mc *Context, op map[string]any, shape *model.Shape, refs map[model.ShapeID][]exampleRef) (map[string]any, error) {
	out := openapi.CloneObject(op)
	if len(shape.Errors) == 0 {
		return out, nil
	}
	byStatus, err := errorsByStatus(mc, shape.Errors)
	if err != nil {
		return nil, err
	}
	mc.logger().Debug("grouped operation errors", "operation", shape.ID.String(), "statuses", len(byStatus))

	responses, ok := openapi.Object(out, "responses")
	if !ok {
		return out, nil
	}
	for key, rawResponse := range responses {
		code, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		response, ok := rawResponse.(map[string]any)
		if !ok {
			continue
		}
		examples := map[string]any{}
		for _, errID := range byStatus[code] {
			for _, ref := range refs[errID] {
				examples[ref.Key] = map[string]any{"$ref": examplesRefPrefix + ref.Component}
			}
		}
		if len(examples) == 0 {
			continue
		}
		responses[key] = withResponseExamples(response, examples)
	}
	return out, nil
}

// errorsByStatus groups declared errors by HTTP status, expanding synthetic
// error unions into their member structures.
func errorsByStatus(mc *Context, declared []model.ShapeID) (map[int][]model.ShapeID, error) {
	out := make(map[int][]model.ShapeID)
	seen := make(map[int]map[model.ShapeID]struct{})
	add := func(code int, id model.ShapeID) {
		if seen[code] == nil {
			seen[code] = make(map[model.ShapeID]struct{})
		}
		if _, dup := seen[code][id]; dup {
			return
		}
		seen[code][id] = struct{}{}
		out[code] = append(out[code], id)
	}

	r := mc.registry()
	for _, id := range declared {
		shape, err := mc.Model.ExpectShape(id)
		if err != nil {
			return nil, err
		}
		switch {
		case shape.IsStructure():
			code, err := traits.ErrorStatusCode(r, shape)
			if err != nil {
				return nil, err
			}
			if union, ok := wrappedUnion(mc.Model, shape); ok {
				for _, member := range union.Members {
					add(code, member.Target)
				}
				continue
			}
			add(code, id)
		case shape.IsUnion():
			for _, member := range shape.Members {
				target, ok := mc.Model.Shape(member.Target)
				if !ok || !target.IsStructure() || !target.HasTrait(traits.ErrorID) {
					continue
				}
				code, err := traits.ErrorStatusCode(r, target)
				if err != nil {
					return nil, err
				}
				add(code, target.ID)
			}
		}
	}
	for code := range out {
		ids := out[code]
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	}
	return out, nil
}

func wrappedUnion(m *model.Model, shape *model.Shape) (*model.Shape, bool) {
	member, ok := shape.MemberByName(errorUnionMember)
	if !ok {
		return nil, false
	}
	target, ok := m.Shape(member.Target)
	if !ok || !target.IsUnion() {
		return nil, false
	}
	return target, true
}

// withResponseExamples merges examples into every media type of the
// response content. Responses without content are returned unchanged.
func withResponseExamples(response map[string]any, examples map[string]any) map[string]any {
	content, ok := openapi.Object(response, "content")
	if !ok {
		return response
	}
	for mediaType, rawMedia := range content {
		media, ok := rawMedia.(map[string]any)
		if !ok {
			continue
		}
		media["examples"] = openapi.MergeObjects(openapi.ObjectOrEmpty(media, "examples"), examples)
		content[mediaType] = media
	}
	return response
}
