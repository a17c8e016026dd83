package openapi

import "context"

// Validator checks a (rewritten) document against the OpenAPI specification.
type Validator interface {
	Validate(ctx context.Context, doc Document) error
}

// ValidatorOptions exposes the validation toggles.
type ValidatorOptions struct {
	// ValidateExamples checks inline and component examples against their
	// schemas. Off by default: synthesized error examples only carry the
	// annotated members and are not expected to satisfy required fields.
	ValidateExamples bool

	// AllowExternalRefs lets the validator follow $ref values that point
	// outside the document.
	AllowExternalRefs bool
}

// ValidatorOption mutates ValidatorOptions during construction.
type ValidatorOption func(*ValidatorOptions)

// WithExamplesValidation toggles example validation.
func WithExamplesValidation(enabled bool) ValidatorOption {
	return func(opts *ValidatorOptions) {
		opts.ValidateExamples = enabled
	}
}

// WithExternalRefs toggles resolution of external references.
func WithExternalRefs(enabled bool) ValidatorOption {
	return func(opts *ValidatorOptions) {
		opts.AllowExternalRefs = enabled
	}
}

// NewValidatorOptions applies ValidatorOption functions and returns the
// resulting configuration.
func NewValidatorOptions(options ...ValidatorOption) ValidatorOptions {
	cfg := ValidatorOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
