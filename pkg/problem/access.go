package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// AccessProblem reports authentication and authorization failures.
type AccessProblem struct {
	status   int
	title    string
	detail   string
	instance string
}

var _ Detail = AccessProblem{}

func (p AccessProblem) ProblemType() string     { return TypeAccess }
func (p AccessProblem) ProblemTitle() string    { return p.title }
func (p AccessProblem) ProblemStatus() int      { return p.status }
func (p AccessProblem) ProblemDetail() string   { return p.detail }
func (p AccessProblem) ProblemInstance() string { return p.instance }
func (AccessProblem) Kind() Kind                { return KindAccess }
func (AccessProblem) isDetail()                 {}

// MarshalJSON implements json.Marshaler.
func (p AccessProblem) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelope{
		Type:     TypeAccess,
		Title:    p.title,
		Status:   p.status,
		Detail:   p.detail,
		Instance: p.instance,
	})
}

// AccessProblemBuilder assembles an AccessProblem. Status defaults to 401.
type AccessProblemBuilder struct {
	status   int
	title    string
	detail   string
	instance string
}

// NewAccessProblem starts a builder.
func NewAccessProblem() *AccessProblemBuilder {
	return &AccessProblemBuilder{status: http.StatusUnauthorized}
}

func (b *AccessProblemBuilder) Status(status int) *AccessProblemBuilder {
	b.status = status
	return b
}

func (b *AccessProblemBuilder) Title(title string) *AccessProblemBuilder {
	b.title = title
	return b
}

func (b *AccessProblemBuilder) Detail(detail string) *AccessProblemBuilder {
	b.detail = detail
	return b
}

func (b *AccessProblemBuilder) Instance(instance string) *AccessProblemBuilder {
	b.instance = instance
	return b
}

// Build validates the title and status.
func (b *AccessProblemBuilder) Build() (AccessProblem, error) {
	if strings.TrimSpace(b.title) == "" {
		return AccessProblem{}, errors.New("problem: access problem title is required")
	}
	if err := checkStatus(b.status); err != nil {
		return AccessProblem{}, err
	}
	return AccessProblem{status: b.status, title: b.title, detail: b.detail, instance: b.instance}, nil
}

// Unauthorized returns a 401 access problem.
func Unauthorized(detail string) AccessProblem {
	return AccessProblem{status: http.StatusUnauthorized, title: "Unauthorized", detail: detail}
}

// Forbidden returns a 403 access problem.
func Forbidden(detail string) AccessProblem {
	return AccessProblem{status: http.StatusForbidden, title: "Forbidden", detail: detail}
}
