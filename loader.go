package formbuilder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/providers/openapi"
)

// NewLoader constructs a document loader while keeping the concrete type
// hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return openapi.NewLoader(options...)
}

// ResolveSource converts a path or HTTP(S) URL into a Source. Paths are made
// absolute and must exist. A "#Model" or "#op=operationId" fragment selects
// the form to render.
func ResolveSource(raw string) (pkgopenapi.Source, error) {
	target := strings.TrimSpace(raw)
	if target == "" {
		return nil, errors.New("formbuilder: source is required")
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		src, err := pkgopenapi.ParseURLSource(target)
		if err != nil {
			return nil, fmt.Errorf("formbuilder: %w", err)
		}
		return src, nil
	}

	path, fragment := target, ""
	if i := strings.LastIndex(target, "#"); i >= 0 {
		path, fragment = target[:i], target[i+1:]
	}
	sel, err := pkgopenapi.ParseSelection(fragment)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: resolve path %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: stat %q: %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("formbuilder: %q is a directory", abs)
	}
	return pkgopenapi.WithSelection(pkgopenapi.SourceFromFile(abs), sel), nil
}
