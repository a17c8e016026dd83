// Package grpcx projects problems onto gRPC statuses. Each status carries an
// errdetails.ErrorInfo with the problem's code and attributes, plus an
// errdetails.BadRequest for validation problems.
package grpcx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"

	"github.com/goliatone/go-errorspec/pkg/problem"
)

const (
	// MetadataProblem is the ErrorInfo metadata key holding the problem JSON.
	MetadataProblem = "problem"

	// Domain is the ErrorInfo domain of problems outside the code catalog.
	Domain = "errorspec"
)

// Code maps an HTTP status onto the closest gRPC code.
func Code(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.Aborted
	case http.StatusPreconditionFailed, http.StatusUnprocessableEntity:
		return codes.FailedPrecondition
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case 499:
		return codes.Canceled
	case http.StatusNotImplemented:
		return codes.Unimplemented
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	}
	switch {
	case httpStatus >= 400 && httpStatus < 500:
		return codes.InvalidArgument
	case httpStatus >= 500:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// ErrorInfo describes d as an errdetails.ErrorInfo. Domain problems use
// their code as reason and their catalog domain; other problems report
// Domain and their kind. Attributes land in the metadata as strings.
func ErrorInfo(d problem.Detail) (*errdetails.ErrorInfo, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("grpcx: encode problem: %w", err)
	}
	info := &errdetails.ErrorInfo{
		Reason: strings.ToUpper(string(d.Kind())),
		Domain: Domain,
		Metadata: map[string]string{
			"type":          d.ProblemType(),
			"title":         d.ProblemTitle(),
			"status":        fmt.Sprint(d.ProblemStatus()),
			MetadataProblem: string(raw),
		},
	}
	if domain, ok := d.(problem.DomainProblem); ok {
		info.Reason = string(domain.Code())
		if catalog, ok := domain.Code().ErrorCode(); ok {
			info.Domain = catalog.Domain()
			info.Metadata["code"] = catalog.Code()
		}
		attrs, err := flatten(domain.Attributes())
		if err != nil {
			return nil, err
		}
		for key, value := range attrs {
			info.Metadata["attributes."+key] = value
		}
	}
	return info, nil
}

func flatten(attrs problem.Attributes) (map[string]string, error) {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("grpcx: encode attributes: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("grpcx: decode attributes: %w", err)
	}
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			out[key] = s
			continue
		}
		out[key] = string(value)
	}
	return out, nil
}

// BadRequest lists one field violation per validation entry in order.
func BadRequest(p problem.ValidationProblem) *errdetails.BadRequest {
	entries := p.Errors()
	out := &errdetails.BadRequest{
		FieldViolations: make([]*errdetails.BadRequest_FieldViolation, 0, len(entries)),
	}
	for _, entry := range entries {
		out.FieldViolations = append(out.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       entry.Ref(),
			Description: entry.Detail(),
		})
	}
	return out
}

// FromProblem builds the status for d.
func FromProblem(d problem.Detail) *status.Status {
	message := d.ProblemTitle()
	if detail := d.ProblemDetail(); detail != "" {
		message += ": " + detail
	}
	base := status.New(Code(d.ProblemStatus()), message)

	info, err := ErrorInfo(d)
	if err != nil {
		return base
	}
	details := []protoadapt.MessageV1{info}
	if validation, ok := d.(problem.ValidationProblem); ok {
		details = append(details, BadRequest(validation))
	}
	if with, err := base.WithDetails(details...); err == nil {
		return with
	}
	return base
}

// Status converts err into a gRPC status. Problem errors carry their
// details; existing statuses pass through; context errors keep their code;
// anything else becomes Internal.
func Status(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	if pe, ok := problem.AsError(err); ok {
		return FromProblem(pe.Problem())
	}
	if st, ok := status.FromError(err); ok {
		return st
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.New(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.New(codes.DeadlineExceeded, err.Error())
	}
	return FromProblem(problem.InternalServerError(""))
}

// FromError recovers the problem carried by a gRPC error built by Status.
func FromError(err error) (*problem.Error, bool) {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return nil, false
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok {
			continue
		}
		raw, ok := info.GetMetadata()[MetadataProblem]
		if !ok {
			continue
		}
		pe, err := problem.DecodeError([]byte(raw))
		if err != nil {
			return nil, false
		}
		return pe, true
	}
	return nil, false
}

// UnaryServerInterceptor converts problem errors returned by handlers into
// statuses. Other errors are returned as is.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := problem.AsError(err); !ok {
			return nil, err
		}
		return nil, Status(err).Err()
	}
}
