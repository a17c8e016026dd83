package problem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Type URIs of the built-in variants.
const (
	TypeAccess     = "/errors/types/access"
	TypeServer     = "/errors/types/server"
	TypeDomain     = "/errors/types/domain"
	TypeValidation = "/errors/types/validation"
)

// MediaType is the content type problem documents are served with.
const MediaType = "application/problem+json"

// Kind identifies a variant.
type Kind string

const (
	KindGeneric    Kind = "generic"
	KindAccess     Kind = "access"
	KindServer     Kind = "server"
	KindDomain     Kind = "domain"
	KindValidation Kind = "validation"
)

// ErrUnknownCode is returned when a domain or validation code has no
// registered variant.
var ErrUnknownCode = errors.New("problem: unknown code")

// Detail is implemented by every problem variant of this package.
type Detail interface {
	ProblemType() string
	ProblemTitle() string
	ProblemStatus() int
	ProblemDetail() string
	ProblemInstance() string
	Kind() Kind

	isDetail()
}

// Attributes is the typed payload carried by domain problems and
// validation entries.
type Attributes interface {
	isAttributes()
}

// envelope is the wire layout shared by all variants.
type envelope struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

var envelopeKeys = map[string]struct{}{
	"type": {}, "title": {}, "status": {}, "detail": {}, "instance": {},
}

func checkStatus(status int) error {
	if status < 400 || status > 599 {
		return fmt.Errorf("problem: status %d outside 400-599", status)
	}
	return nil
}

// Problem is the base envelope. Decode returns it for type URIs that do not
// belong to a known variant, keeping unrecognised members in Extensions.
type Problem struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]any
}

var _ Detail = Problem{}

func (p Problem) ProblemType() string     { return p.Type }
func (p Problem) ProblemTitle() string    { return p.Title }
func (p Problem) ProblemStatus() int      { return p.Status }
func (p Problem) ProblemDetail() string   { return p.Detail }
func (p Problem) ProblemInstance() string { return p.Instance }
func (Problem) Kind() Kind                { return KindGeneric }
func (Problem) isDetail()                 {}

// MarshalJSON flattens Extensions next to the envelope members. Envelope
// members always win over extensions with the same name.
func (p Problem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extensions)+5)
	for key, value := range p.Extensions {
		if _, reserved := envelopeKeys[key]; reserved {
			continue
		}
		out[key] = value
	}
	out["type"] = p.Type
	out["title"] = p.Title
	out["status"] = p.Status
	if p.Detail != "" {
		out["detail"] = p.Detail
	}
	if p.Instance != "" {
		out["instance"] = p.Instance
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the envelope and keeps every other member, numbers as
// json.Number, in Extensions.
func (p *Problem) UnmarshalJSON(raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var all map[string]any
	if err := dec.Decode(&all); err != nil {
		return err
	}
	var extensions map[string]any
	for key, value := range all {
		if _, reserved := envelopeKeys[key]; reserved {
			continue
		}
		if extensions == nil {
			extensions = make(map[string]any)
		}
		extensions[key] = value
	}
	*p = Problem{
		Type:       env.Type,
		Title:      env.Title,
		Status:     env.Status,
		Detail:     env.Detail,
		Instance:   env.Instance,
		Extensions: extensions,
	}
	return nil
}
