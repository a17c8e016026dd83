package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ServerProblem reports failures on the server side.
type ServerProblem struct {
	status   int
	title    string
	detail   string
	instance string
}

var _ Detail = ServerProblem{}

func (p ServerProblem) ProblemType() string     { return TypeServer }
func (p ServerProblem) ProblemTitle() string    { return p.title }
func (p ServerProblem) ProblemStatus() int      { return p.status }
func (p ServerProblem) ProblemDetail() string   { return p.detail }
func (p ServerProblem) ProblemInstance() string { return p.instance }
func (ServerProblem) Kind() Kind                { return KindServer }
func (ServerProblem) isDetail()                 {}

// MarshalJSON implements json.Marshaler.
func (p ServerProblem) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelope{
		Type:     TypeServer,
		Title:    p.title,
		Status:   p.status,
		Detail:   p.detail,
		Instance: p.instance,
	})
}

// NewServerProblem validates and builds a server problem.
func NewServerProblem(status int, title, detail string) (ServerProblem, error) {
	if strings.TrimSpace(title) == "" {
		return ServerProblem{}, errors.New("problem: server problem title is required")
	}
	if err := checkStatus(status); err != nil {
		return ServerProblem{}, err
	}
	return ServerProblem{status: status, title: title, detail: detail}, nil
}

// WithInstance returns a copy carrying the instance URI.
func (p ServerProblem) WithInstance(instance string) ServerProblem {
	p.instance = instance
	return p
}

// InternalServerError returns a 500 server problem.
func InternalServerError(detail string) ServerProblem {
	return ServerProblem{status: http.StatusInternalServerError, title: "Internal Server Error", detail: detail}
}

// ServiceUnavailable returns a 503 server problem.
func ServiceUnavailable(detail string) ServerProblem {
	return ServerProblem{status: http.StatusServiceUnavailable, title: "Service Unavailable", detail: detail}
}
