package openapi

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// DefaultMaxDocumentBytes caps documents when LoaderOptions leaves it unset.
const DefaultMaxDocumentBytes int64 = 16 << 20

// Loader fetches OpenAPI documents.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources. Loading is offline
// by default: HTTP sources need a client or an explicit fallback.
type LoaderOptions struct {
	// FileSystem serves SourceKindFS sources.
	FileSystem fs.FS
	// HTTPClient serves SourceKindURL sources.
	HTTPClient *http.Client
	// AllowHTTPFallback enables HTTP with a default client.
	AllowHTTPFallback bool
	// RequestTimeout caps remote fetches, body included.
	RequestTimeout time.Duration
	// MaxDocumentBytes caps every source kind. Zero means
	// DefaultMaxDocumentBytes.
	MaxDocumentBytes int64
}

// LoaderOption mutates LoaderOptions.
type LoaderOption func(*LoaderOptions)

// WithFileSystem sets the fs.FS used for SourceFromFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) { opts.FileSystem = files }
}

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) { opts.HTTPClient = client }
}

// WithHTTPFallback enables URL sources with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithMaxDocumentBytes caps the size of loaded documents.
func WithMaxDocumentBytes(limit int64) LoaderOption {
	return func(opts *LoaderOptions) { opts.MaxDocumentBytes = limit }
}

// NewLoaderOptions applies options.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	return cfg
}
