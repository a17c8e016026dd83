package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrShapeNotFound is returned when a shape ID does not resolve.
var ErrShapeNotFound = errors.New("model: shape not found")

// preludeTypes maps prelude simple shape names onto their types.
var preludeTypes = map[string]ShapeType{
	"String": TypeString, "Blob": TypeBlob, "Boolean": TypeBoolean,
	"Byte": TypeByte, "Short": TypeShort, "Integer": TypeInteger,
	"Long": TypeLong, "Float": TypeFloat, "Double": TypeDouble,
	"BigInteger": TypeBigInteger, "BigDecimal": TypeBigDecimal,
	"Timestamp": TypeTimestamp, "Document": TypeDocument,
	"PrimitiveBoolean": TypeBoolean, "PrimitiveByte": TypeByte,
	"PrimitiveShort": TypeShort, "PrimitiveInteger": TypeInteger,
	"PrimitiveLong": TypeLong, "PrimitiveFloat": TypeFloat,
	"PrimitiveDouble": TypeDouble, "Unit": TypeStructure,
}

// Model is a read-only index of shapes.
type Model struct {
	shapes map[ShapeID]*Shape
	order  []ShapeID
}

// New builds a model from already constructed shapes. Member IDs are filled
// in from their container when missing.
func New(shapes ...*Shape) (*Model, error) {
	m := &Model{shapes: make(map[ShapeID]*Shape, len(shapes))}
	for _, shape := range shapes {
		if err := m.add(shape); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew panics when New fails. Intended for tests.
func MustNew(shapes ...*Shape) *Model {
	m, err := New(shapes...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Model) add(shape *Shape) error {
	if shape == nil {
		return errors.New("model: shape is nil")
	}
	if shape.ID.IsZero() || shape.ID.HasMember() {
		return fmt.Errorf("model: invalid shape id %q", shape.ID)
	}
	if _, ok := knownTypes[shape.Type]; !ok {
		return fmt.Errorf("model: shape %s has unsupported type %q", shape.ID, shape.Type)
	}
	if _, exists := m.shapes[shape.ID]; exists {
		return fmt.Errorf("model: duplicate shape %s", shape.ID)
	}
	for _, member := range shape.Members {
		fillMember(shape.ID, member)
	}
	fillMember(shape.ID, shape.Member)
	fillMember(shape.ID, shape.Key)

	m.shapes[shape.ID] = shape
	m.order = append(m.order, shape.ID)
	return nil
}

func fillMember(container ShapeID, member *Member) {
	if member == nil {
		return
	}
	if member.ID.IsZero() {
		member.ID = container.WithMember(member.Name)
	}
	if member.Name == "" {
		member.Name = member.ID.Member()
	}
}

// Len returns the number of declared shapes.
func (m *Model) Len() int {
	if m == nil {
		return 0
	}
	return len(m.shapes)
}

// Shape returns the shape with the given ID. Prelude simple shapes resolve
// to synthetic shapes even though they are never declared.
func (m *Model) Shape(id ShapeID) (*Shape, bool) {
	if m != nil {
		if shape, ok := m.shapes[id]; ok {
			return shape, true
		}
	}
	if id.Namespace() == PreludeNamespace && !id.HasMember() {
		if typ, ok := preludeTypes[id.Name()]; ok {
			return &Shape{ID: id, Type: typ}, true
		}
	}
	return nil, false
}

// ExpectShape is Shape with an error for unresolved IDs.
func (m *Model) ExpectShape(id ShapeID) (*Shape, error) {
	shape, ok := m.Shape(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShapeNotFound, id)
	}
	return shape, nil
}

// Shapes returns every declared shape in declaration order.
func (m *Model) Shapes() []*Shape {
	if m == nil {
		return nil
	}
	out := make([]*Shape, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.shapes[id])
	}
	return out
}

// ShapesOfType returns the shapes of one type sorted by ID.
func (m *Model) ShapesOfType(typ ShapeType) []*Shape {
	var out []*Shape
	for _, shape := range m.Shapes() {
		if shape.Type == typ {
			out = append(out, shape)
		}
	}
	sortShapes(out)
	return out
}

// StructureShapes returns every structure sorted by ID.
func (m *Model) StructureShapes() []*Shape {
	return m.ShapesOfType(TypeStructure)
}

// Services returns every service sorted by ID.
func (m *Model) Services() []*Shape {
	return m.ShapesOfType(TypeService)
}

// ShapesWithTrait returns the shapes carrying the trait, sorted by ID.
func (m *Model) ShapesWithTrait(trait ShapeID) []*Shape {
	var out []*Shape
	for _, shape := range m.Shapes() {
		if shape.HasTrait(trait) {
			out = append(out, shape)
		}
	}
	sortShapes(out)
	return out
}

// MembersWithTrait returns every structure or union member carrying the
// trait, ordered by container ID then declaration order.
func (m *Model) MembersWithTrait(trait ShapeID) []*Member {
	var out []*Member
	for _, shape := range append(m.StructureShapes(), m.ShapesOfType(TypeUnion)...) {
		for _, member := range shape.Members {
			if member.HasTrait(trait) {
				out = append(out, member)
			}
		}
	}
	return out
}

// ServiceOperations returns every operation bound to the service, directly or
// through its resources (recursively, lifecycle operations included), sorted
// by ID without duplicates.
func (m *Model) ServiceOperations(service ShapeID) ([]*Shape, error) {
	svc, err := m.ExpectShape(service)
	if err != nil {
		return nil, err
	}
	if !svc.IsService() {
		return nil, fmt.Errorf("model: %s is a %s, not a service", service, svc.Type)
	}

	seen := make(map[ShapeID]struct{})
	visited := make(map[ShapeID]struct{})
	var out []*Shape

	addOperation := func(id ShapeID) error {
		if _, ok := seen[id]; ok {
			return nil
		}
		op, err := m.ExpectShape(id)
		if err != nil {
			return err
		}
		if !op.IsOperation() {
			return fmt.Errorf("model: %s bound as operation but is a %s", id, op.Type)
		}
		seen[id] = struct{}{}
		out = append(out, op)
		return nil
	}

	var walk func(container *Shape) error
	walk = func(container *Shape) error {
		if _, ok := visited[container.ID]; ok {
			return nil
		}
		visited[container.ID] = struct{}{}

		ids := append([]ShapeID(nil), container.Operations...)
		ids = append(ids, container.CollectionOperations...)
		for _, name := range lifecycleNames {
			if id, ok := container.Lifecycle[name]; ok {
				ids = append(ids, id)
			}
		}
		for _, id := range ids {
			if err := addOperation(id); err != nil {
				return err
			}
		}
		for _, id := range container.Resources {
			resource, err := m.ExpectShape(id)
			if err != nil {
				return err
			}
			if err := walk(resource); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(svc); err != nil {
		return nil, err
	}
	sortShapes(out)
	return out, nil
}

func sortShapes(shapes []*Shape) {
	sort.Slice(shapes, func(i, j int) bool {
		return strings.Compare(shapes[i].ID.String(), shapes[j].ID.String()) < 0
	})
}
