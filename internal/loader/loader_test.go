package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	pkgopenapi "github.com/goliatone/go-errorspec/pkg/openapi"
	"github.com/goliatone/go-errorspec/pkg/source"
)

const fixture = `{"openapi": "3.1.0", "info": {"title": "Bank", "version": "1"}, "paths": {}}`

func TestLoaderFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.json")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New(pkgopenapi.LoaderOptions{}).Load(context.Background(), source.FromFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Version() != "3.1.0" {
		t.Fatalf("version = %q", doc.Version())
	}
	if doc.Format() != pkgopenapi.FormatJSON {
		t.Fatalf("format = %q", doc.Format())
	}
}

func TestLoaderFSSource(t *testing.T) {
	files := fstest.MapFS{
		"specs/openapi.yaml": {Data: []byte("openapi: 3.0.3\ninfo:\n  title: Bank\n  version: '1'\npaths: {}\n")},
	}
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), source.FromFS("specs/openapi.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Format() != pkgopenapi.FormatYAML {
		t.Fatalf("format = %q", doc.Format())
	}

	if _, err := New(pkgopenapi.LoaderOptions{}).Load(context.Background(), source.FromFS("specs/openapi.yaml")); err == nil {
		t.Fatalf("expected error without filesystem")
	}
}

func TestLoaderHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	ctx := context.Background()
	if _, err := New(pkgopenapi.LoaderOptions{}).Load(ctx, source.FromURL(server.URL)); err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected disabled http error, got %v", err)
	}

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(0)))
	doc, err := l.Load(ctx, source.FromURL(server.URL+"/openapi.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Location() != server.URL+"/openapi.json" {
		t.Fatalf("location = %q", doc.Location())
	}

	if _, err := l.Load(ctx, source.FromURL(server.URL+"/missing")); err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoaderInjectedClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPClient(server.Client())))
	raw, err := l.Fetch(context.Background(), source.FromURL(server.URL))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(raw) != fixture {
		t.Fatalf("unexpected payload %q", raw)
	}
}

func TestLoaderRejectsUnusableSources(t *testing.T) {
	l := New(pkgopenapi.LoaderOptions{})
	ctx := context.Background()

	if _, err := l.Fetch(ctx, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := l.Fetch(ctx, source.Inline("memory")); err == nil {
		t.Fatalf("expected error for inline source")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := l.Fetch(cancelled, source.FromFile("openapi.json")); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestLoaderErrorsNameTheSource(t *testing.T) {
	t.Parallel()

	_, err := New(pkgopenapi.LoaderOptions{}).Fetch(context.Background(), source.FromFile("testdata/absent.json"))
	if err == nil {
		t.Fatalf("expected missing file error")
	}
	for _, want := range []string{string(source.KindFile), "testdata/absent.json"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err, want)
		}
	}
}
