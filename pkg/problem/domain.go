package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DomainCode discriminates domain problems on the wire.
type DomainCode string

const (
	TransferLimitExceeded DomainCode = "TRANSFER_LIMIT_EXCEEDED"
	AccountSuspended      DomainCode = "ACCOUNT_SUSPENDED"
)

// TransferLimitExceededAttributes describes the refused transfer.
type TransferLimitExceededAttributes struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

func (TransferLimitExceededAttributes) isAttributes() {}

// AccountSuspendedAttributes explains a suspension.
type AccountSuspendedAttributes struct {
	Reason string `json:"reason"`
}

func (AccountSuspendedAttributes) isAttributes() {}

type domainSpec struct {
	title   string
	catalog DomainErrorCode
	check   func(Attributes) error
	decode  func(json.RawMessage) (Attributes, error)
}

var domainSpecs = map[DomainCode]domainSpec{
	TransferLimitExceeded: {
		title:   "Transfer Limit Exceeded",
		catalog: TransferLimitExceededCode,
		check: func(a Attributes) error {
			attrs, ok := a.(TransferLimitExceededAttributes)
			if !ok {
				return fmt.Errorf("expected TransferLimitExceededAttributes, got %T", a)
			}
			if _, err := attrs.Amount.Float64(); err != nil {
				return fmt.Errorf("amount %q is not a number", attrs.Amount)
			}
			if strings.TrimSpace(attrs.Currency) == "" {
				return errors.New("currency is required")
			}
			return nil
		},
		decode: decodeAttributes[TransferLimitExceededAttributes],
	},
	AccountSuspended: {
		title:   "Account Suspended",
		catalog: AccountSuspendedCode,
		check: func(a Attributes) error {
			if _, ok := a.(AccountSuspendedAttributes); !ok {
				return fmt.Errorf("expected AccountSuspendedAttributes, got %T", a)
			}
			return nil
		},
		decode: decodeAttributes[AccountSuspendedAttributes],
	},
}

func decodeAttributes[A Attributes](raw json.RawMessage) (Attributes, error) {
	var attrs A
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("attributes are required")
	}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// DomainCodes returns every registered domain code.
func DomainCodes() []DomainCode {
	return []DomainCode{AccountSuspended, TransferLimitExceeded}
}

// Title returns the fixed title of the code, or "" when unknown.
func (c DomainCode) Title() string { return domainSpecs[c].title }

// ErrorCode returns the catalog entry of the code.
func (c DomainCode) ErrorCode() (DomainErrorCode, bool) {
	spec, ok := domainSpecs[c]
	return spec.catalog, ok
}

// DomainProblem reports a business rule violation identified by Code.
type DomainProblem struct {
	status     int
	code       DomainCode
	detail     string
	instance   string
	attributes Attributes
}

var _ Detail = DomainProblem{}

func (p DomainProblem) ProblemType() string     { return TypeDomain }
func (p DomainProblem) ProblemTitle() string    { return p.code.Title() }
func (p DomainProblem) ProblemStatus() int      { return p.status }
func (p DomainProblem) ProblemDetail() string   { return p.detail }
func (p DomainProblem) ProblemInstance() string { return p.instance }
func (DomainProblem) Kind() Kind                { return KindDomain }
func (DomainProblem) isDetail()                 {}

// Code returns the discriminator.
func (p DomainProblem) Code() DomainCode { return p.code }

// Attributes returns the typed attributes.
func (p DomainProblem) Attributes() Attributes { return p.attributes }

type domainWire struct {
	envelope
	Code       DomainCode `json:"code"`
	Attributes Attributes `json:"attributes"`
}

// MarshalJSON implements json.Marshaler.
func (p DomainProblem) MarshalJSON() ([]byte, error) {
	return json.Marshal(domainWire{
		envelope: envelope{
			Type:     TypeDomain,
			Title:    p.ProblemTitle(),
			Status:   p.status,
			Detail:   p.detail,
			Instance: p.instance,
		},
		Code:       p.code,
		Attributes: p.attributes,
	})
}

// DomainProblemBuilder assembles a DomainProblem. Status defaults to 422.
type DomainProblemBuilder struct {
	status     int
	code       DomainCode
	detail     string
	instance   string
	attributes Attributes
}

// NewDomainProblem starts a builder for code.
func NewDomainProblem(code DomainCode) *DomainProblemBuilder {
	return &DomainProblemBuilder{status: http.StatusUnprocessableEntity, code: code}
}

func (b *DomainProblemBuilder) Status(status int) *DomainProblemBuilder {
	b.status = status
	return b
}

func (b *DomainProblemBuilder) Detail(detail string) *DomainProblemBuilder {
	b.detail = detail
	return b
}

func (b *DomainProblemBuilder) Instance(instance string) *DomainProblemBuilder {
	b.instance = instance
	return b
}

func (b *DomainProblemBuilder) Attributes(attributes Attributes) *DomainProblemBuilder {
	b.attributes = attributes
	return b
}

// Build validates the code, status and attributes.
func (b *DomainProblemBuilder) Build() (DomainProblem, error) {
	spec, ok := domainSpecs[b.code]
	if !ok {
		return DomainProblem{}, fmt.Errorf("%w: domain code %q", ErrUnknownCode, b.code)
	}
	if err := checkStatus(b.status); err != nil {
		return DomainProblem{}, err
	}
	if b.attributes == nil {
		return DomainProblem{}, fmt.Errorf("problem: %s attributes are required", b.code)
	}
	if err := spec.check(b.attributes); err != nil {
		return DomainProblem{}, fmt.Errorf("problem: %s attributes: %w", b.code, err)
	}
	return DomainProblem{
		status:     b.status,
		code:       b.code,
		detail:     b.detail,
		instance:   b.instance,
		attributes: b.attributes,
	}, nil
}

// NewTransferLimitExceeded builds a 422 TRANSFER_LIMIT_EXCEEDED problem.
func NewTransferLimitExceeded(detail string, attrs TransferLimitExceededAttributes) (DomainProblem, error) {
	return NewDomainProblem(TransferLimitExceeded).Detail(detail).Attributes(attrs).Build()
}

// NewAccountSuspended builds a 422 ACCOUNT_SUSPENDED problem.
func NewAccountSuspended(detail string, attrs AccountSuspendedAttributes) (DomainProblem, error) {
	return NewDomainProblem(AccountSuspended).Detail(detail).Attributes(attrs).Build()
}
