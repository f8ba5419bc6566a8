// Package loader reads OpenAPI documents from files, an fs.FS or HTTP. It
// implements openapi.Loader; construct it through providers/openapi.
//
// Every source kind is served by a fetcher that opens a stream; the loader
// applies the size cap and media type checks the same way for all of them.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/goliatone/go-formbuilder/pkg/openapi"
)

var (
	// ErrSourceDisabled is returned for source kinds the options did not
	// enable.
	ErrSourceDisabled = errors.New("loader: source kind not enabled")
	// ErrTooLarge is returned when a document exceeds the size cap.
	ErrTooLarge = errors.New("loader: document too large")
	// ErrMediaType is returned when a server answers with something that
	// cannot be an OpenAPI document.
	ErrMediaType = errors.New("loader: unexpected media type")
)

// stream is an opened document and the media type its origin declared, if
// any.
type stream struct {
	body      io.ReadCloser
	mediaType string
}

type fetcher func(ctx context.Context, location string) (stream, error)

// Loader dispatches on the source kind.
type Loader struct {
	fetchers map[openapi.SourceKind]fetcher
	maxBytes int64
}

var _ openapi.Loader = (*Loader)(nil)

// New constructs a Loader from resolved options. File sources are always
// served; fs.FS sources need a filesystem and URL sources need a client or
// the HTTP fallback.
func New(options openapi.LoaderOptions) *Loader {
	l := &Loader{
		fetchers: map[openapi.SourceKind]fetcher{openapi.SourceKindFile: openFile},
		maxBytes: options.MaxDocumentBytes,
	}
	if l.maxBytes <= 0 {
		l.maxBytes = openapi.DefaultMaxDocumentBytes
	}
	if options.FileSystem != nil {
		l.fetchers[openapi.SourceKindFS] = openFS(options.FileSystem)
	}
	if client := httpClient(options); client != nil {
		l.fetchers[openapi.SourceKindURL] = openURL(client)
	}
	return l
}

// Enabled reports whether kind can be loaded.
func (l *Loader) Enabled(kind openapi.SourceKind) bool {
	_, ok := l.fetchers[kind]
	return ok
}

// Load fetches the document behind src. The returned document keeps src, so
// a selection carried by the source survives loading.
func (l *Loader) Load(ctx context.Context, src openapi.Source) (openapi.Document, error) {
	if src == nil {
		return openapi.Document{}, errors.New("loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return openapi.Document{}, err
	}
	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		return openapi.Document{}, fmt.Errorf("%w: %s", ErrSourceDisabled, src.Kind())
	}

	opened, err := fetch(ctx, src.Location())
	if err != nil {
		return openapi.Document{}, err
	}
	defer func() {
		_ = opened.body.Close()
	}()

	if err := checkMediaType(opened.mediaType); err != nil {
		return openapi.Document{}, fmt.Errorf("%s: %w", src.Location(), err)
	}
	data, err := io.ReadAll(io.LimitReader(opened.body, l.maxBytes+1))
	if err != nil {
		return openapi.Document{}, fmt.Errorf("loader: read %s: %w", src.Location(), err)
	}
	if int64(len(data)) > l.maxBytes {
		return openapi.Document{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, src.Location(), l.maxBytes)
	}
	return openapi.NewDocument(src, data)
}

// checkMediaType rejects HTML pages (login walls, error pages) served where a
// document was expected. An empty media type is accepted.
func checkMediaType(raw string) error {
	if raw == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return fmt.Errorf("%w %q", ErrMediaType, raw)
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return fmt.Errorf("%w %q", ErrMediaType, mediaType)
	default:
		return nil
	}
}

func httpClient(options openapi.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		return &clone
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: options.RequestTimeout}
	default:
		return nil
	}
}
