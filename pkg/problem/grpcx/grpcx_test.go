package grpcx

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/goliatone/go-errorspec/pkg/problem"
)

func TestCodeMapping(t *testing.T) {
	t.Parallel()

	cases := map[int]codes.Code{
		400: codes.InvalidArgument,
		401: codes.Unauthenticated,
		403: codes.PermissionDenied,
		418: codes.InvalidArgument,
		422: codes.FailedPrecondition,
		500: codes.Internal,
		503: codes.Unavailable,
		507: codes.Internal,
	}
	for httpStatus, want := range cases {
		if got := Code(httpStatus); got != want {
			t.Fatalf("Code(%d) = %v, want %v", httpStatus, got, want)
		}
	}
}

func TestStatusCarriesDomainErrorInfo(t *testing.T) {
	t.Parallel()

	pe, err := problem.TransferLimitExceededError("over", problem.TransferLimitExceededAttributes{Amount: "1500.50", Currency: "EUR"})
	if err != nil {
		t.Fatalf("TransferLimitExceededError: %v", err)
	}
	st := Status(pe)
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("unexpected code %v", st.Code())
	}
	var info *errdetails.ErrorInfo
	for _, d := range st.Details() {
		if v, ok := d.(*errdetails.ErrorInfo); ok {
			info = v
		}
	}
	if info == nil {
		t.Fatalf("ErrorInfo missing from %v", st.Details())
	}
	if info.GetReason() != "TRANSFER_LIMIT_EXCEEDED" || info.GetDomain() != "transfer" {
		t.Fatalf("unexpected ErrorInfo %v", info)
	}
	md := info.GetMetadata()
	if md["attributes.amount"] != "1500.50" || md["attributes.currency"] != "EUR" {
		t.Fatalf("unexpected attributes metadata %v", md)
	}
	if md["code"] != "transfer.transfer_limit_exceeded" {
		t.Fatalf("unexpected catalog code %q", md["code"])
	}
}

func TestValidationStatusCarriesBadRequest(t *testing.T) {
	t.Parallel()

	p, err := problem.NewValidationProblem().
		AddMissingValue("Name is required", "name", "name").
		AddInvalidFormat("Email must be valid", "email", "^.+@.+$").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	st := Status(problem.NewError(p))
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("unexpected code %v", st.Code())
	}
	var fields []string
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok {
			for _, v := range br.GetFieldViolations() {
				fields = append(fields, v.GetField())
			}
		}
	}
	if diff := cmp.Diff([]string{"name", "email"}, fields); diff != "" {
		t.Fatalf("field violations mismatch (-want +got):\n%s", diff)
	}
}

func TestFromErrorRoundTrip(t *testing.T) {
	t.Parallel()

	st := Status(problem.ForbiddenError("no"))
	pe, ok := FromError(st.Err())
	if !ok {
		t.Fatalf("expected problem in status")
	}
	if pe.Problem().Kind() != problem.KindAccess || pe.Status() != 403 {
		t.Fatalf("unexpected problem %v", pe)
	}
}

func TestStatusForPlainErrors(t *testing.T) {
	t.Parallel()

	if got := Status(context.DeadlineExceeded).Code(); got != codes.DeadlineExceeded {
		t.Fatalf("deadline mapped to %v", got)
	}
	if got := Status(errors.New("secret")); got.Code() != codes.Internal || got.Message() != "Internal Server Error" {
		t.Fatalf("plain error mapped to %v %q", got.Code(), got.Message())
	}
	existing := status.Error(codes.NotFound, "missing")
	if got := Status(existing).Code(); got != codes.NotFound {
		t.Fatalf("existing status mapped to %v", got)
	}
}

func TestUnaryServerInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/bank.v1.Bank/Transfer"}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, problem.UnauthorizedError("token expired")
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	plain := errors.New("plain")
	_, err = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, plain
	})
	if !errors.Is(err, plain) {
		t.Fatalf("expected plain error to pass through, got %v", err)
	}

	resp, err := interceptor(context.Background(), "req", info, func(_ context.Context, req any) (any, error) {
		return req, nil
	})
	if err != nil || resp != "req" {
		t.Fatalf("unexpected passthrough %v, %v", resp, err)
	}
}

func TestErrorInfoForUncataloguedProblems(t *testing.T) {
	t.Parallel()

	info, err := ErrorInfo(problem.Forbidden("no access"))
	if err != nil {
		t.Fatalf("ErrorInfo: %v", err)
	}
	if info.GetDomain() != Domain || info.GetReason() != "ACCESS" {
		t.Fatalf("unexpected reason/domain %q %q", info.GetReason(), info.GetDomain())
	}
	if got := info.GetMetadata()["type"]; got != problem.TypeAccess {
		t.Fatalf("type metadata = %q", got)
	}
}
