package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const validationTitle = "Validation Problem"

// InvalidFormatAttributes names the pattern a value failed to match.
type InvalidFormatAttributes struct {
	Pattern string `json:"pattern"`
}

func (InvalidFormatAttributes) isAttributes() {}

// MissingValueAttributes names the absent field.
type MissingValueAttributes struct {
	MissingField string `json:"missingField"`
}

func (MissingValueAttributes) isAttributes() {}

// ValidationError is one field-level entry of a ValidationProblem.
type ValidationError interface {
	Code() ValidationErrorCode
	Detail() string
	Ref() string
	Attributes() Attributes

	isValidationError()
}

// InvalidFormatError reports a value that does not match its pattern.
type InvalidFormatError struct {
	detail     string
	ref        string
	attributes InvalidFormatAttributes
}

// NewInvalidFormatError validates and builds an invalid_format entry.
func NewInvalidFormatError(detail, ref, pattern string) (InvalidFormatError, error) {
	if err := checkEntry(InvalidFormatCode, ref); err != nil {
		return InvalidFormatError{}, err
	}
	return InvalidFormatError{detail: detail, ref: ref, attributes: InvalidFormatAttributes{Pattern: pattern}}, nil
}

func (InvalidFormatError) Code() ValidationErrorCode { return InvalidFormatCode }
func (e InvalidFormatError) Detail() string          { return e.detail }
func (e InvalidFormatError) Ref() string             { return e.ref }
func (e InvalidFormatError) Attributes() Attributes  { return e.attributes }
func (e InvalidFormatError) Pattern() string         { return e.attributes.Pattern }
func (InvalidFormatError) isValidationError()        {}

// MarshalJSON implements json.Marshaler.
func (e InvalidFormatError) MarshalJSON() ([]byte, error) {
	return marshalEntry(e)
}

// MissingValueError reports a required value that was not supplied.
type MissingValueError struct {
	detail     string
	ref        string
	attributes MissingValueAttributes
}

// NewMissingValueError validates and builds a missing_value entry.
func NewMissingValueError(detail, ref, missingField string) (MissingValueError, error) {
	if err := checkEntry(MissingValueCode, ref); err != nil {
		return MissingValueError{}, err
	}
	return MissingValueError{detail: detail, ref: ref, attributes: MissingValueAttributes{MissingField: missingField}}, nil
}

func (MissingValueError) Code() ValidationErrorCode { return MissingValueCode }
func (e MissingValueError) Detail() string          { return e.detail }
func (e MissingValueError) Ref() string             { return e.ref }
func (e MissingValueError) Attributes() Attributes  { return e.attributes }
func (e MissingValueError) MissingField() string    { return e.attributes.MissingField }
func (MissingValueError) isValidationError()        {}

// MarshalJSON implements json.Marshaler.
func (e MissingValueError) MarshalJSON() ([]byte, error) {
	return marshalEntry(e)
}

func checkEntry(code ValidationErrorCode, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("problem: %s entry ref is required", code)
	}
	return nil
}

type entryWire struct {
	Code       ValidationErrorCode `json:"code"`
	Detail     string              `json:"detail"`
	Ref        string              `json:"ref"`
	Attributes json.RawMessage     `json:"attributes"`
}

func marshalEntry(e ValidationError) ([]byte, error) {
	attrs, err := json.Marshal(e.Attributes())
	if err != nil {
		return nil, err
	}
	return json.Marshal(entryWire{Code: e.Code(), Detail: e.Detail(), Ref: e.Ref(), Attributes: attrs})
}

func decodeEntry(w entryWire) (ValidationError, error) {
	switch w.Code {
	case InvalidFormatCode:
		var attrs InvalidFormatAttributes
		if err := unmarshalOptional(w.Attributes, &attrs); err != nil {
			return nil, err
		}
		entry, err := NewInvalidFormatError(w.Detail, w.Ref, attrs.Pattern)
		if err != nil {
			return nil, err
		}
		return entry, nil
	case MissingValueCode:
		var attrs MissingValueAttributes
		if err := unmarshalOptional(w.Attributes, &attrs); err != nil {
			return nil, err
		}
		entry, err := NewMissingValueError(w.Detail, w.Ref, attrs.MissingField)
		if err != nil {
			return nil, err
		}
		return entry, nil
	default:
		return nil, fmt.Errorf("%w: validation code %q", ErrUnknownCode, w.Code)
	}
}

func unmarshalOptional(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// ValidationProblem collects field-level validation errors. It has no root
// detail; each entry carries its own.
type ValidationProblem struct {
	instance string
	errors   []ValidationError
}

var _ Detail = ValidationProblem{}

func (ValidationProblem) ProblemType() string       { return TypeValidation }
func (ValidationProblem) ProblemTitle() string      { return validationTitle }
func (ValidationProblem) ProblemStatus() int        { return http.StatusBadRequest }
func (ValidationProblem) ProblemDetail() string     { return "" }
func (p ValidationProblem) ProblemInstance() string { return p.instance }
func (ValidationProblem) Kind() Kind                { return KindValidation }
func (ValidationProblem) isDetail()                 {}

// Errors returns the entries in the order they were added.
func (p ValidationProblem) Errors() []ValidationError {
	return append([]ValidationError(nil), p.errors...)
}

type validationWire struct {
	envelope
	Errors []ValidationError `json:"errors"`
}

// MarshalJSON implements json.Marshaler. errors is always present.
func (p ValidationProblem) MarshalJSON() ([]byte, error) {
	entries := p.errors
	if entries == nil {
		entries = []ValidationError{}
	}
	return json.Marshal(validationWire{
		envelope: envelope{
			Type:     TypeValidation,
			Title:    validationTitle,
			Status:   http.StatusBadRequest,
			Instance: p.instance,
		},
		Errors: entries,
	})
}

// ValidationProblemBuilder appends entries fluently. The first construction
// failure is kept and returned by Build.
type ValidationProblemBuilder struct {
	instance string
	errors   []ValidationError
	err      error
}

// NewValidationProblem starts an empty builder.
func NewValidationProblem() *ValidationProblemBuilder {
	return &ValidationProblemBuilder{}
}

func (b *ValidationProblemBuilder) Instance(instance string) *ValidationProblemBuilder {
	b.instance = instance
	return b
}

// Add appends a prepared entry.
func (b *ValidationProblemBuilder) Add(entry ValidationError) *ValidationProblemBuilder {
	if entry == nil {
		b.fail(errors.New("problem: validation entry is nil"))
		return b
	}
	b.errors = append(b.errors, entry)
	return b
}

// AddInvalidFormat appends an invalid_format entry.
func (b *ValidationProblemBuilder) AddInvalidFormat(detail, ref, pattern string) *ValidationProblemBuilder {
	entry, err := NewInvalidFormatError(detail, ref, pattern)
	if err != nil {
		b.fail(err)
		return b
	}
	return b.Add(entry)
}

// AddMissingValue appends a missing_value entry.
func (b *ValidationProblemBuilder) AddMissingValue(detail, ref, missingField string) *ValidationProblemBuilder {
	entry, err := NewMissingValueError(detail, ref, missingField)
	if err != nil {
		b.fail(err)
		return b
	}
	return b.Add(entry)
}

func (b *ValidationProblemBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build returns the problem or the first entry error.
func (b *ValidationProblemBuilder) Build() (ValidationProblem, error) {
	if b.err != nil {
		return ValidationProblem{}, b.err
	}
	return ValidationProblem{
		instance: b.instance,
		errors:   append([]ValidationError(nil), b.errors...),
	}, nil
}
