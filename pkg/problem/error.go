package problem

import (
	"errors"
	"fmt"
)

// Error carries a problem through Go error chains.
type Error struct {
	detail Detail
	cause  error
}

// NewError wraps a problem without a cause.
func NewError(detail Detail) *Error {
	return &Error{detail: detail}
}

// Wrap attaches cause to a problem. A nil cause behaves like NewError.
func Wrap(detail Detail, cause error) *Error {
	return &Error{detail: detail, cause: cause}
}

// Error implements the error interface.
//
// Format: <status> <title>[ (<code>)][: <detail>]
func (e *Error) Error() string {
	if e == nil || e.detail == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%d %s", e.detail.ProblemStatus(), e.detail.ProblemTitle())
	if domain, ok := e.detail.(DomainProblem); ok {
		msg += " (" + string(domain.Code()) + ")"
	}
	if d := e.detail.ProblemDetail(); d != "" {
		msg += ": " + d
	}
	return msg
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.cause }

// Problem returns the wrapped problem.
func (e *Error) Problem() Detail { return e.detail }

// Status returns the HTTP status of the problem, 500 when there is none.
func (e *Error) Status() int {
	if e == nil || e.detail == nil {
		return 500
	}
	return e.detail.ProblemStatus()
}

// ErrorBuilder assembles an Error.
type ErrorBuilder struct {
	detail Detail
	cause  error
}

// NewErrorBuilder starts a builder.
func NewErrorBuilder() *ErrorBuilder { return &ErrorBuilder{} }

func (b *ErrorBuilder) Detail(detail Detail) *ErrorBuilder {
	b.detail = detail
	return b
}

func (b *ErrorBuilder) Cause(cause error) *ErrorBuilder {
	b.cause = cause
	return b
}

// Build fails when no problem was supplied.
func (b *ErrorBuilder) Build() (*Error, error) {
	if b.detail == nil {
		return nil, errors.New("problem: error detail is required")
	}
	return &Error{detail: b.detail, cause: b.cause}, nil
}

// AsError finds an *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) && target != nil && target.detail != nil {
		return target, true
	}
	return nil, false
}

// DomainOf returns the domain problem carried by err, if any.
func DomainOf(err error) (DomainProblem, bool) {
	pe, ok := AsError(err)
	if !ok {
		return DomainProblem{}, false
	}
	domain, ok := pe.detail.(DomainProblem)
	return domain, ok
}

// AttributesOf returns the typed attributes of the domain problem carried
// by err.
func AttributesOf[A Attributes](err error) (A, bool) {
	var zero A
	domain, ok := DomainOf(err)
	if !ok {
		return zero, false
	}
	attrs, ok := domain.Attributes().(A)
	if !ok {
		return zero, false
	}
	return attrs, true
}

// TransferLimitExceededError builds the problem and wraps it.
func TransferLimitExceededError(detail string, attrs TransferLimitExceededAttributes) (*Error, error) {
	p, err := NewTransferLimitExceeded(detail, attrs)
	if err != nil {
		return nil, err
	}
	return NewError(p), nil
}

// AccountSuspendedError builds the problem and wraps it.
func AccountSuspendedError(detail string, attrs AccountSuspendedAttributes) (*Error, error) {
	p, err := NewAccountSuspended(detail, attrs)
	if err != nil {
		return nil, err
	}
	return NewError(p), nil
}

// UnauthorizedError wraps Unauthorized(detail).
func UnauthorizedError(detail string) *Error { return NewError(Unauthorized(detail)) }

// ForbiddenError wraps Forbidden(detail).
func ForbiddenError(detail string) *Error { return NewError(Forbidden(detail)) }

// InternalError wraps InternalServerError(detail) around cause.
func InternalError(detail string, cause error) *Error {
	return Wrap(InternalServerError(detail), cause)
}
