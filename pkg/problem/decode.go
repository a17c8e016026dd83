package problem

import (
	"encoding/json"
	"fmt"
)

type decodeWire struct {
	envelope
	Code       DomainCode      `json:"code"`
	Attributes json.RawMessage `json:"attributes"`
	Errors     []entryWire     `json:"errors"`
}

// Decode rebuilds a problem from its JSON form. The type URI selects the
// variant; domain problems are further discriminated by code and validation
// entries by their own code. Unknown type URIs decode into Problem.
func Decode(raw []byte) (Detail, error) {
	var w decodeWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("problem: decode: %w", err)
	}

	switch w.Type {
	case TypeAccess:
		p, err := NewAccessProblem().
			Status(w.Status).
			Title(w.Title).
			Detail(w.Detail).
			Instance(w.Instance).
			Build()
		if err != nil {
			return nil, err
		}
		return p, nil
	case TypeServer:
		p, err := NewServerProblem(w.Status, w.Title, w.Detail)
		if err != nil {
			return nil, err
		}
		return p.WithInstance(w.Instance), nil
	case TypeDomain:
		return decodeDomain(w)
	case TypeValidation:
		b := NewValidationProblem().Instance(w.Instance)
		for i, entry := range w.Errors {
			decoded, err := decodeEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("problem: errors[%d]: %w", i, err)
			}
			b.Add(decoded)
		}
		p, err := b.Build()
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		var p Problem
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("problem: decode: %w", err)
		}
		return p, nil
	}
}

func decodeDomain(w decodeWire) (Detail, error) {
	spec, ok := domainSpecs[w.Code]
	if !ok {
		return nil, fmt.Errorf("%w: domain code %q", ErrUnknownCode, w.Code)
	}
	attrs, err := spec.decode(w.Attributes)
	if err != nil {
		return nil, fmt.Errorf("problem: %s attributes: %w", w.Code, err)
	}
	p, err := NewDomainProblem(w.Code).
		Status(w.Status).
		Detail(w.Detail).
		Instance(w.Instance).
		Attributes(attrs).
		Build()
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeError decodes raw and wraps the result in an Error.
func DecodeError(raw []byte) (*Error, error) {
	detail, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return NewError(detail), nil
}
