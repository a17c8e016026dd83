package mapper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/openapi"
	"github.com/goliatone/go-errorspec/pkg/traits"
)

// Mapper rewrites an OpenAPI document object tree.
type Mapper interface {
	Name() string
	Order() int
	UpdateNode(ctx context.Context, mc *Context, doc map[string]any) (map[string]any, error)
}

// Context carries the model the document was generated from.
type Context struct {
	Model   *model.Model
	Service model.ShapeID
	Traits  *traits.Registry
	Logger  *slog.Logger
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func (mc *Context) logger() *slog.Logger {
	if mc == nil || mc.Logger == nil {
		return discard
	}
	return mc.Logger
}

func (mc *Context) registry() *traits.Registry {
	if mc == nil || mc.Traits == nil {
		return nil
	}
	return mc.Traits
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithMapper registers an additional mapper.
func WithMapper(m Mapper) PipelineOption {
	return func(p *Pipeline) {
		p.pending = append(p.pending, m)
	}
}

// WithConstOptions forwards options to the ConstMapper registered by
// DefaultPipeline.
func WithConstOptions(options ...ConstOption) PipelineOption {
	return func(p *Pipeline) {
		p.constOptions = append(p.constOptions, options...)
	}
}

// Pipeline runs registered mappers in order.
type Pipeline struct {
	mu           sync.RWMutex
	mappers      map[string]Mapper
	pending      []Mapper
	constOptions []ConstOption
}

// NewPipeline creates a pipeline holding only mappers supplied via options.
func NewPipeline(options ...PipelineOption) (*Pipeline, error) {
	p := &Pipeline{mappers: make(map[string]Mapper)}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	for _, m := range p.pending {
		if err := p.Register(m); err != nil {
			return nil, err
		}
	}
	p.pending = nil
	return p, nil
}

// DefaultPipeline registers the const rewriter and both example mappers
// ahead of any mapper supplied via options.
func DefaultPipeline(options ...PipelineOption) (*Pipeline, error) {
	p, err := NewPipeline(options...)
	if err != nil {
		return nil, err
	}
	for _, m := range []Mapper{
		NewConstMapper(p.constOptions...),
		NewErrorExampleMapper(),
		NewMemberExampleMapper(),
	} {
		if err := p.Register(m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Register adds a mapper. Names must be unique.
func (p *Pipeline) Register(m Mapper) error {
	if m == nil {
		return errors.New("mapper: mapper is nil")
	}
	name := m.Name()
	if name == "" {
		return errors.New("mapper: mapper name is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.mappers[name]; exists {
		return fmt.Errorf("mapper: %q already registered", name)
	}
	p.mappers[name] = m
	return nil
}

// Mappers returns the registered mappers in execution order.
func (p *Pipeline) Mappers() []Mapper {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Mapper, 0, len(p.mappers))
	for _, m := range p.mappers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order() != out[j].Order() {
			return out[i].Order() < out[j].Order()
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Apply runs every mapper on a copy of doc. The input is never modified.
func (p *Pipeline) Apply(ctx context.Context, mc *Context, doc map[string]any) (map[string]any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if mc == nil || mc.Model == nil {
		return nil, errors.New("mapper: context with a model is required")
	}
	current := openapi.CloneObject(doc)
	if current == nil {
		current = map[string]any{}
	}
	for _, m := range p.Mappers() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mc.logger().Debug("running mapper", "mapper", m.Name(), "order", m.Order())
		next, err := m.UpdateNode(ctx, mc, current)
		if err != nil {
			return nil, fmt.Errorf("mapper %s: %w", m.Name(), err)
		}
		if next != nil {
			current = next
		}
	}
	return current, nil
}

// ApplyDocument runs the pipeline over a Document and returns a new Document
// with the same source and format.
func (p *Pipeline) ApplyDocument(ctx context.Context, mc *Context, doc openapi.Document) (openapi.Document, error) {
	root, err := p.Apply(ctx, mc, doc.Root())
	if err != nil {
		return openapi.Document{}, err
	}
	return openapi.NewDocumentFromRoot(doc.Source(), doc.Format(), root)
}
