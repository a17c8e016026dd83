package model

// ShapeType enumerates the shape kinds understood by the model.
type ShapeType string

const (
	TypeStructure ShapeType = "structure"
	TypeUnion     ShapeType = "union"
	TypeList      ShapeType = "list"
	TypeSet       ShapeType = "set"
	TypeMap       ShapeType = "map"
	TypeOperation ShapeType = "operation"
	TypeService   ShapeType = "service"
	TypeResource  ShapeType = "resource"
	TypeMember    ShapeType = "member"

	TypeString     ShapeType = "string"
	TypeEnum       ShapeType = "enum"
	TypeBlob       ShapeType = "blob"
	TypeBoolean    ShapeType = "boolean"
	TypeByte       ShapeType = "byte"
	TypeShort      ShapeType = "short"
	TypeInteger    ShapeType = "integer"
	TypeIntEnum    ShapeType = "intEnum"
	TypeLong       ShapeType = "long"
	TypeFloat      ShapeType = "float"
	TypeDouble     ShapeType = "double"
	TypeBigInteger ShapeType = "bigInteger"
	TypeBigDecimal ShapeType = "bigDecimal"
	TypeTimestamp  ShapeType = "timestamp"
	TypeDocument   ShapeType = "document"
)

var knownTypes = map[ShapeType]struct{}{
	TypeStructure: {}, TypeUnion: {}, TypeList: {}, TypeSet: {}, TypeMap: {},
	TypeOperation: {}, TypeService: {}, TypeResource: {},
	TypeString: {}, TypeEnum: {}, TypeBlob: {}, TypeBoolean: {}, TypeByte: {},
	TypeShort: {}, TypeInteger: {}, TypeIntEnum: {}, TypeLong: {}, TypeFloat: {},
	TypeDouble: {}, TypeBigInteger: {}, TypeBigDecimal: {}, TypeTimestamp: {},
	TypeDocument: {},
}

// Lifecycle operation names carried by resources.
var lifecycleNames = []string{"create", "put", "read", "update", "delete", "list"}

// Shape is a named type definition. Only the fields relevant to the shape's
// Type are populated.
type Shape struct {
	ID     ShapeID
	Type   ShapeType
	Traits map[ShapeID]any

	// Members holds structure, union and enum members in declaration order.
	Members []*Member

	// Member is the list/set element or the map value.
	Member *Member

	// Key is the map key.
	Key *Member

	Input  ShapeID
	Output ShapeID

	// Errors are declared on operations and services.
	Errors []ShapeID

	// Operations and Resources bind services and resources to their children.
	Operations           []ShapeID
	CollectionOperations []ShapeID
	Resources            []ShapeID
	Lifecycle            map[string]ShapeID

	Version string
}

// Member is a named slot of an aggregate shape.
type Member struct {
	ID     ShapeID
	Name   string
	Target ShapeID
	Traits map[ShapeID]any
}

// Container returns the ID of the shape that declares the member.
func (m *Member) Container() ShapeID {
	return m.ID.WithoutMember()
}

// HasTrait reports whether the member carries the trait.
func (m *Member) HasTrait(id ShapeID) bool {
	if m == nil {
		return false
	}
	_, ok := m.Traits[id]
	return ok
}

// TraitNode returns the raw node of a member trait.
func (m *Member) TraitNode(id ShapeID) (any, bool) {
	if m == nil {
		return nil, false
	}
	node, ok := m.Traits[id]
	return node, ok
}

// HasTrait reports whether the shape carries the trait.
func (s *Shape) HasTrait(id ShapeID) bool {
	if s == nil {
		return false
	}
	_, ok := s.Traits[id]
	return ok
}

// TraitNode returns the raw node of a shape trait.
func (s *Shape) TraitNode(id ShapeID) (any, bool) {
	if s == nil {
		return nil, false
	}
	node, ok := s.Traits[id]
	return node, ok
}

// MemberByName returns the named member of an aggregate shape.
func (s *Shape) MemberByName(name string) (*Member, bool) {
	if s == nil {
		return nil, false
	}
	for _, member := range s.Members {
		if member.Name == name {
			return member, true
		}
	}
	return nil, false
}

// IsStructure reports whether the shape is a structure.
func (s *Shape) IsStructure() bool { return s != nil && s.Type == TypeStructure }

// IsUnion reports whether the shape is a union.
func (s *Shape) IsUnion() bool { return s != nil && s.Type == TypeUnion }

// IsList reports whether the shape is a list or set.
func (s *Shape) IsList() bool { return s != nil && (s.Type == TypeList || s.Type == TypeSet) }

// IsOperation reports whether the shape is an operation.
func (s *Shape) IsOperation() bool { return s != nil && s.Type == TypeOperation }

// IsService reports whether the shape is a service.
func (s *Shape) IsService() bool { return s != nil && s.Type == TypeService }

// TraitHolder is implemented by shapes and members, the two places traits
// can be attached.
type TraitHolder interface {
	TraitTarget() ShapeID
	TraitNode(id ShapeID) (any, bool)
	HasTrait(id ShapeID) bool
}

var (
	_ TraitHolder = (*Shape)(nil)
	_ TraitHolder = (*Member)(nil)
)

// TraitTarget returns the ID traits on this shape are attached to.
func (s *Shape) TraitTarget() ShapeID { return s.ID }

// TraitTarget returns the member ID traits on this member are attached to.
func (m *Member) TraitTarget() ShapeID { return m.ID }
