package traits

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-errorspec/pkg/model"
)

// Trait IDs understood by the default registry.
var (
	ConstID         = model.MustShapeID("com.example#const")
	MemberExampleID = model.MustShapeID("com.example#memberExample")
	ErrorExampleID  = model.MustShapeID("com.example#errorExample")

	ErrorID     = model.MustShapeID("smithy.api#error")
	HTTPErrorID = model.MustShapeID("smithy.api#httpError")
	HTTPID      = model.MustShapeID("smithy.api#http")
	DefaultID   = model.MustShapeID("smithy.api#default")
)

// Trait is a typed view over a trait node.
type Trait interface {
	ID() model.ShapeID
	// Node returns the node the trait serialises back to.
	Node() any
}

// Provider creates a Trait from the raw node found on target.
type Provider interface {
	ID() model.ShapeID
	Create(target model.ShapeID, node any) (Trait, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc struct {
	TraitID model.ShapeID
	Fn      func(target model.ShapeID, node any) (Trait, error)
}

// ID returns the trait ID handled by the provider.
func (p ProviderFunc) ID() model.ShapeID { return p.TraitID }

// Create invokes the wrapped function.
func (p ProviderFunc) Create(target model.ShapeID, node any) (Trait, error) {
	return p.Fn(target, node)
}

// Registry stores providers by trait ID.
type Registry struct {
	mu        sync.RWMutex
	providers map[model.ShapeID]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[model.ShapeID]Provider)}
}

// DefaultRegistry returns a new registry holding every built-in provider.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range builtinProviders() {
		r.MustRegister(p)
	}
	return r
}

// Register adds a provider. Duplicate trait IDs return an error.
func (r *Registry) Register(provider Provider) error {
	if provider == nil {
		return errors.New("traits: provider is required")
	}
	id := provider.ID()
	if id.IsZero() {
		return errors.New("traits: provider trait id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[id]; exists {
		return fmt.Errorf("traits: provider for %s already registered", id)
	}
	r.providers[id] = provider
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(provider Provider) {
	if err := r.Register(provider); err != nil {
		panic(err)
	}
}

// Provider returns the provider for a trait ID.
func (r *Registry) Provider(id model.ShapeID) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	return p, ok
}

// IDs returns the registered trait IDs sorted.
func (r *Registry) IDs() []model.ShapeID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]model.ShapeID, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Create materialises the trait id from holder. ok is false when the holder
// does not carry the trait.
func (r *Registry) Create(holder model.TraitHolder, id model.ShapeID) (trait Trait, ok bool, err error) {
	node, present := holder.TraitNode(id)
	if !present {
		return nil, false, nil
	}
	provider, found := r.Provider(id)
	if !found {
		return nil, true, fmt.Errorf("traits: no provider registered for %s", id)
	}
	trait, err = provider.Create(holder.TraitTarget(), node)
	if err != nil {
		return nil, true, fmt.Errorf("traits: %s on %s: %w", id, holder.TraitTarget(), err)
	}
	return trait, true, nil
}

// Lookup materialises a trait and asserts its concrete type.
func Lookup[T Trait](r *Registry, holder model.TraitHolder, id model.ShapeID) (T, bool, error) {
	var zero T
	if r == nil {
		r = DefaultRegistry()
	}
	trait, ok, err := r.Create(holder, id)
	if err != nil || !ok {
		return zero, ok, err
	}
	typed, isT := trait.(T)
	if !isT {
		return zero, true, fmt.Errorf("traits: %s on %s decoded to %T", id, holder.TraitTarget(), trait)
	}
	return typed, true, nil
}

// Validate materialises every registered trait found on every shape and
// member of m and returns all failures joined.
func Validate(m *model.Model, r *Registry) error {
	if m == nil {
		return errors.New("traits: model is nil")
	}
	if r == nil {
		r = DefaultRegistry()
	}
	ids := r.IDs()

	var errs []error
	check := func(holder model.TraitHolder) {
		for _, id := range ids {
			if _, _, err := r.Create(holder, id); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, shape := range m.Shapes() {
		check(shape)
		for _, member := range shape.Members {
			check(member)
		}
		if shape.Member != nil {
			check(shape.Member)
		}
		if shape.Key != nil {
			check(shape.Key)
		}
	}
	return errors.Join(errs...)
}

func builtinProviders() []Provider {
	return []Provider{
		ProviderFunc{TraitID: ConstID, Fn: newConst},
		ProviderFunc{TraitID: MemberExampleID, Fn: newMemberExample},
		ProviderFunc{TraitID: ErrorExampleID, Fn: newErrorExample},
		ProviderFunc{TraitID: ErrorID, Fn: newError},
		ProviderFunc{TraitID: HTTPErrorID, Fn: newHTTPError},
		ProviderFunc{TraitID: HTTPID, Fn: newHTTP},
		ProviderFunc{TraitID: DefaultID, Fn: newDefault},
	}
}
