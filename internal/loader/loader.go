package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	pkgopenapi "github.com/goliatone/go-errorspec/pkg/openapi"
	"github.com/goliatone/go-errorspec/pkg/source"
)

// Loader implements pkgopenapi.Loader and source.Fetcher by delegating to
// file, fs.FS, or HTTP strategies. Construction helpers live in the top-level
// errorspec package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var (
	_ pkgopenapi.Loader = (*Loader)(nil)
	_ source.Fetcher    = (*Loader)(nil)
)

// New constructs a Loader from pre-resolved options.
func New(options pkgopenapi.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches an OpenAPI document and decodes it into its object tree.
func (l *Loader) Load(ctx context.Context, src source.Source) (pkgopenapi.Document, error) {
	data, err := l.Fetch(ctx, src)
	if err != nil {
		return pkgopenapi.Document{}, err
	}
	return pkgopenapi.NewDocument(src, data)
}

// Fetch returns the raw payload behind src. Failures name the source kind
// and location.
func (l *Loader) Fetch(ctx context.Context, src source.Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("loader: source is nil")
	}
	raw, err := l.fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", src.Kind(), src.Location(), err)
	}
	return raw, nil
}

func (l *Loader) fetch(ctx context.Context, src source.Source) ([]byte, error) {
	switch src.Kind() {
	case source.KindFile:
		return loadFile(ctx, src.Location())
	case source.KindFS:
		return loadFromFS(ctx, l.fs, src.Location())
	case source.KindURL:
		if !l.allowHTTP {
			return nil, errors.New("loader: http support disabled")
		}
		return loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		return nil, errors.New("loader: unsupported source kind " + string(src.Kind()))
	}
}
