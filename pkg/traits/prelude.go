package traits

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/openapi"
)

// ErrorTrait marks a structure as an error raised by the client or server.
type ErrorTrait struct {
	kind string
}

func newError(_ model.ShapeID, node any) (Trait, error) {
	kind, ok := node.(string)
	if !ok || (kind != "client" && kind != "server") {
		return nil, fmt.Errorf(`expected "client" or "server", got %v`, node)
	}
	return ErrorTrait{kind: kind}, nil
}

// ID implements Trait.
func (ErrorTrait) ID() model.ShapeID { return ErrorID }

// Node implements Trait.
func (t ErrorTrait) Node() any { return t.kind }

// IsClientError reports a "client" error.
func (t ErrorTrait) IsClientError() bool { return t.kind == "client" }

// IsServerError reports a "server" error.
func (t ErrorTrait) IsServerError() bool { return t.kind == "server" }

// ErrorOf reads the error trait from a shape.
func ErrorOf(r *Registry, holder model.TraitHolder) (ErrorTrait, bool, error) {
	return Lookup[ErrorTrait](r, holder, ErrorID)
}

// HTTPErrorTrait overrides the HTTP status code of an error.
type HTTPErrorTrait struct {
	code int
}

func newHTTPError(_ model.ShapeID, node any) (Trait, error) {
	code, err := intValue(node)
	if err != nil {
		return nil, err
	}
	if code < 400 || code > 599 {
		return nil, fmt.Errorf("status code %d outside 400-599", code)
	}
	return HTTPErrorTrait{code: code}, nil
}

// ID implements Trait.
func (HTTPErrorTrait) ID() model.ShapeID { return HTTPErrorID }

// Node implements Trait.
func (t HTTPErrorTrait) Node() any { return json.Number(fmt.Sprint(t.code)) }

// Code returns the status code.
func (t HTTPErrorTrait) Code() int { return t.code }

// HTTPErrorOf reads the httpError trait from a shape.
func HTTPErrorOf(r *Registry, holder model.TraitHolder) (HTTPErrorTrait, bool, error) {
	return Lookup[HTTPErrorTrait](r, holder, HTTPErrorID)
}

// HTTPTrait binds an operation to a method and URI pattern.
type HTTPTrait struct {
	method string
	uri    string
	code   int
}

func newHTTP(_ model.ShapeID, node any) (Trait, error) {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", node)
	}
	method, _ := obj["method"].(string)
	uri, _ := obj["uri"].(string)
	if strings.TrimSpace(method) == "" {
		return nil, fmt.Errorf("method is required")
	}
	if !strings.HasPrefix(uri, "/") {
		return nil, fmt.Errorf("uri %q must start with /", uri)
	}
	code := http.StatusOK
	if raw, present := obj["code"]; present {
		parsed, err := intValue(raw)
		if err != nil {
			return nil, fmt.Errorf("code: %w", err)
		}
		code = parsed
	}
	return HTTPTrait{method: method, uri: uri, code: code}, nil
}

// ID implements Trait.
func (HTTPTrait) ID() model.ShapeID { return HTTPID }

// Node implements Trait.
func (t HTTPTrait) Node() any {
	return map[string]any{
		"method": t.method,
		"uri":    t.uri,
		"code":   json.Number(fmt.Sprint(t.code)),
	}
}

// Method returns the HTTP method as declared.
func (t HTTPTrait) Method() string { return t.method }

// URI returns the URI pattern including any query literals.
func (t HTTPTrait) URI() string { return t.uri }

// Path returns the URI pattern without its query string.
func (t HTTPTrait) Path() string {
	if idx := strings.IndexByte(t.uri, '?'); idx >= 0 {
		return t.uri[:idx]
	}
	return t.uri
}

// Code returns the success status code.
func (t HTTPTrait) Code() int { return t.code }

// HTTPOf reads the http trait from an operation.
func HTTPOf(r *Registry, holder model.TraitHolder) (HTTPTrait, bool, error) {
	return Lookup[HTTPTrait](r, holder, HTTPID)
}

// DefaultTrait carries a member's default value.
type DefaultTrait struct {
	value any
}

func newDefault(_ model.ShapeID, node any) (Trait, error) {
	return DefaultTrait{value: openapi.CloneNode(node)}, nil
}

// ID implements Trait.
func (DefaultTrait) ID() model.ShapeID { return DefaultID }

// Node implements Trait.
func (t DefaultTrait) Node() any { return openapi.CloneNode(t.value) }

// Value returns the default value.
func (t DefaultTrait) Value() any { return openapi.CloneNode(t.value) }

// DefaultOf reads the default trait from a member.
func DefaultOf(r *Registry, holder model.TraitHolder) (DefaultTrait, bool, error) {
	return Lookup[DefaultTrait](r, holder, DefaultID)
}

// ErrorStatusCode resolves the HTTP status of an error shape: the httpError
// override, else 400 for client errors and 500 for everything else.
func ErrorStatusCode(r *Registry, shape *model.Shape) (int, error) {
	if httpErr, ok, err := HTTPErrorOf(r, shape); err != nil {
		return 0, err
	} else if ok {
		return httpErr.Code(), nil
	}
	errTrait, ok, err := ErrorOf(r, shape)
	if err != nil {
		return 0, err
	}
	if ok && errTrait.IsClientError() {
		return http.StatusBadRequest, nil
	}
	return http.StatusInternalServerError, nil
}

func intValue(node any) (int, error) {
	switch v := node.(type) {
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %s", v)
		}
		return int(i), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", node)
	}
}
