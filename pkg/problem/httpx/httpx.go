// Package httpx writes problems as application/problem+json responses and
// reads them back from HTTP responses.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/goliatone/go-errorspec/pkg/problem"
)

// maxProblemBody bounds how much of a response body FromResponse reads.
const maxProblemBody = 1 << 20

// WriteProblem serializes d with its own status code. Problems without a
// 4xx or 5xx status are replaced by a generic 500.
func WriteProblem(w http.ResponseWriter, d problem.Detail) {
	if d == nil || d.ProblemStatus() < 400 || d.ProblemStatus() > 599 {
		d = problem.InternalServerError("")
	}
	body, err := json.Marshal(d)
	if err != nil {
		fallback := problem.InternalServerError("problem could not be encoded")
		body, _ = json.Marshal(fallback)
		d = fallback
	}
	w.Header().Set("Content-Type", problem.MediaType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(d.ProblemStatus())
	_, _ = w.Write(body)
}

// Write renders err. Errors carrying a problem use it as is; anything else
// becomes a generic 500 server problem without leaking err's message.
func Write(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if pe, ok := problem.AsError(err); ok {
		WriteProblem(w, pe.Problem())
		return
	}
	WriteProblem(w, problem.InternalServerError(""))
}

// HandlerFunc is an http.HandlerFunc that can fail.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handler adapts fn into an http.Handler that writes returned errors as
// problems.
func Handler(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			Write(w, err)
		}
	})
}

// IsProblem reports whether resp declares a problem+json body.
func IsProblem(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mediaType == problem.MediaType
}

// ErrNotProblem is returned by FromResponse when the body is not a problem.
var ErrNotProblem = errors.New("httpx: response is not a problem")

// FromResponse decodes the problem in resp's body. The body is consumed but
// not closed.
func FromResponse(resp *http.Response) (*problem.Error, error) {
	if !IsProblem(resp) {
		return nil, ErrNotProblem
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxProblemBody))
	if err != nil {
		return nil, fmt.Errorf("httpx: read problem: %w", err)
	}
	return problem.DecodeError(raw)
}
