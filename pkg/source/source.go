// Package source identifies where model and OpenAPI payloads come from so
// loaders can operate on files, fs.FS entries, URLs, or in-memory bytes
// without leaking implementation details.
package source

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where a document originated.
type Source interface {
	Kind() Kind
	Location() string
}

// Kind enumerates the loader modalities.
type Kind string

const (
	KindFile   Kind = "file"
	KindFS     Kind = "fs"
	KindURL    Kind = "url"
	KindInline Kind = "inline"
)

// Fetcher resolves a Source into its raw payload.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) ([]byte, error)
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() Kind       { return KindFile }

// FromFile returns a Source pointing to a file path.
func FromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() Kind       { return KindFS }

// FromFS returns a Source identifying a resource inside an fs.FS.
func FromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() Kind       { return KindURL }

// FromURL parses the supplied URL string and returns a Source. It panics if
// the URL is invalid to surface configuration mistakes early.
func FromURL(raw string) Source {
	if raw == "" {
		panic("source: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("source: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// Inline labels a payload that was built in memory (tests, generators that
// hand over the document directly).
type Inline string

func (s Inline) Location() string { return string(s) }
func (s Inline) Kind() Kind       { return KindInline }

// Parse turns a CLI-style argument into a Source: http(s) URLs become URL
// sources, anything else is treated as a file path. Empty input yields nil.
func Parse(raw string) Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return FromURL(path)
	}
	return FromFile(path)
}
