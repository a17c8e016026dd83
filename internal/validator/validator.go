package validator

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-errorspec/pkg/openapi"
)

// Validator implements pkgopenapi.Validator using kin-openapi.
type Validator struct {
	options pkgopenapi.ValidatorOptions
}

var _ pkgopenapi.Validator = (*Validator)(nil)

// New constructs a Validator with the given options.
func New(options pkgopenapi.ValidatorOptions) *Validator {
	return &Validator{options: options}
}

// Validate loads the document through kin-openapi and runs its structural
// validation. The document is re-encoded as JSON so YAML inputs take the same
// path.
func (v *Validator) Validate(ctx context.Context, doc pkgopenapi.Document) error {
	if ctx == nil {
		return errors.New("openapi validator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := doc.Encode(pkgopenapi.FormatJSON)
	if err != nil {
		return err
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: v.options.AllowExternalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return fmt.Errorf("openapi validator: load %s: %w", doc.Location(), err)
	}

	var opts []openapi3.ValidationOption
	if !v.options.ValidateExamples {
		opts = append(opts, openapi3.DisableExamplesValidation())
	}
	if err := spec.Validate(ctx, opts...); err != nil {
		return fmt.Errorf("openapi validator: %s: %w", doc.Location(), err)
	}
	return nil
}
