// Package errorspec post-processes OpenAPI documents generated from a Smithy
// model: it rewrites const members, synthesizes error response examples from
// trait data, and validates the result.
package errorspec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-errorspec/internal/loader"
	"github.com/goliatone/go-errorspec/internal/validator"
	"github.com/goliatone/go-errorspec/pkg/mapper"
	"github.com/goliatone/go-errorspec/pkg/model"
	pkgopenapi "github.com/goliatone/go-errorspec/pkg/openapi"
	"github.com/goliatone/go-errorspec/pkg/source"
	"github.com/goliatone/go-errorspec/pkg/traits"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return loader.New(cfg)
}

// NewValidator constructs a kin-openapi backed validator.
func NewValidator(options ...pkgopenapi.ValidatorOption) pkgopenapi.Validator {
	cfg := pkgopenapi.NewValidatorOptions(options...)
	return validator.New(cfg)
}

// NewPipeline returns the default mapper pipeline: const rewriting followed by
// the error and member example synthesizers.
func NewPipeline(options ...mapper.PipelineOption) (*mapper.Pipeline, error) {
	return mapper.DefaultPipeline(options...)
}

// Request describes one processing run. Model and Document may be given either
// as sources to fetch or as already decoded values; decoded values win.
type Request struct {
	Model        source.Source
	ModelValue   *model.Model
	Document     source.Source
	OpenAPI      *pkgopenapi.Document
	Service      model.ShapeID
	Validate     bool
	OutputFormat pkgopenapi.Format
}

// Result is the rewritten document plus its encoded form.
type Result struct {
	Document pkgopenapi.Document
	Encoded  []byte
}

// Processor wires the loader, trait registry, pipeline and validator.
type Processor struct {
	loaderOptions []pkgopenapi.LoaderOption
	fetcher       source.Fetcher
	registry      *traits.Registry
	pipeline      *mapper.Pipeline
	validator     pkgopenapi.Validator
	logger        *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLoaderOptions forwards options to the internal loader.
func WithLoaderOptions(options ...pkgopenapi.LoaderOption) Option {
	return func(p *Processor) {
		p.loaderOptions = append(p.loaderOptions, options...)
	}
}

// WithRegistry replaces the built-in trait registry.
func WithRegistry(r *traits.Registry) Option {
	return func(p *Processor) {
		p.registry = r
	}
}

// WithPipeline replaces the default mapper pipeline.
func WithPipeline(pipeline *mapper.Pipeline) Option {
	return func(p *Processor) {
		p.pipeline = pipeline
	}
}

// WithValidator replaces the kin-openapi validator.
func WithValidator(v pkgopenapi.Validator) Option {
	return func(p *Processor) {
		p.validator = v
	}
}

// WithLogger routes mapper diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// New constructs a Processor with the default registry, pipeline and
// validator unless overridden.
func New(options ...Option) (*Processor, error) {
	p := &Processor{}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	p.fetcher = loader.New(pkgopenapi.NewLoaderOptions(p.loaderOptions...))
	if p.registry == nil {
		p.registry = traits.DefaultRegistry()
	}
	if p.pipeline == nil {
		pipeline, err := mapper.DefaultPipeline()
		if err != nil {
			return nil, err
		}
		p.pipeline = pipeline
	}
	if p.validator == nil {
		p.validator = NewValidator()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p, nil
}

// LoadModel fetches and parses a Smithy JSON AST model.
func (p *Processor) LoadModel(ctx context.Context, src source.Source) (*model.Model, error) {
	if src == nil {
		return nil, errors.New("errorspec: model source is required")
	}
	raw, err := p.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("errorspec: load model: %w", err)
	}
	m, err := model.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("errorspec: load model %s: %w", src.Location(), err)
	}
	return m, nil
}

// LoadDocument fetches and decodes an OpenAPI document.
func (p *Processor) LoadDocument(ctx context.Context, src source.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("errorspec: openapi source is required")
	}
	raw, err := p.fetcher.Fetch(ctx, src)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("errorspec: load openapi document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(src, raw)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("errorspec: load openapi document: %w", err)
	}
	return doc, nil
}

// Process loads both inputs, checks every trait in the model, runs the
// pipeline and optionally validates the rewritten document.
func (p *Processor) Process(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	m := req.ModelValue
	if m == nil {
		if req.Model == nil {
			return Result{}, errors.New("errorspec: model source is required")
		}
		loaded, err := p.LoadModel(ctx, req.Model)
		if err != nil {
			return Result{}, err
		}
		m = loaded
	}

	var doc pkgopenapi.Document
	switch {
	case req.OpenAPI != nil:
		doc = *req.OpenAPI
	case req.Document != nil:
		loaded, err := p.LoadDocument(ctx, req.Document)
		if err != nil {
			return Result{}, err
		}
		doc = loaded
	default:
		return Result{}, errors.New("errorspec: openapi source is required")
	}

	if err := traits.Validate(m, p.registry); err != nil {
		return Result{}, err
	}

	mc := &mapper.Context{
		Model:   m,
		Service: req.Service,
		Traits:  p.registry,
		Logger:  p.logger,
	}
	out, err := p.pipeline.ApplyDocument(ctx, mc, doc)
	if err != nil {
		return Result{}, err
	}

	if req.Validate {
		if err := p.validator.Validate(ctx, out); err != nil {
			return Result{}, err
		}
	}

	format := req.OutputFormat
	if format == "" {
		format = out.Format()
	}
	encoded, err := out.Encode(format)
	if err != nil {
		return Result{}, err
	}
	p.logger.Debug("document processed", "location", out.Location(), "format", string(format))
	return Result{Document: out, Encoded: encoded}, nil
}
