package openapi

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidSelection reports a malformed source fragment.
var ErrInvalidSelection = errors.New("openapi: invalid selection")

// Selection names the form a source is opened for: a component schema, or an
// operation whose request body model is rendered. References carry it as a
// fragment: "blog.yaml#Article", "blog.yaml#model=Article" or
// "blog.yaml#op=createArticle".
type Selection struct {
	Model     string
	Operation string
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return s.Model == "" && s.Operation == "" }

// String renders the fragment form of the selection.
func (s Selection) String() string {
	switch {
	case s.Operation != "":
		return "op=" + s.Operation
	case s.Model != "":
		return s.Model
	default:
		return ""
	}
}

// ParseSelection parses a reference fragment. An empty fragment selects
// nothing.
func ParseSelection(fragment string) (Selection, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return Selection{}, nil
	}
	key, value, keyed := strings.Cut(fragment, "=")
	if !keyed {
		key, value = "model", fragment
	}
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, "#/ ") {
		return Selection{}, fmt.Errorf("%w %q", ErrInvalidSelection, fragment)
	}
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "model", "schema":
		return Selection{Model: value}, nil
	case "op", "operation":
		return Selection{Operation: value}, nil
	default:
		return Selection{}, fmt.Errorf("%w %q: unknown key %q", ErrInvalidSelection, fragment, key)
	}
}

// Selector is implemented by sources that carry a Selection.
type Selector interface {
	Selection() Selection
}

// SelectionOf returns the selection carried by src, empty when none.
func SelectionOf(src Source) Selection {
	if selector, ok := src.(Selector); ok {
		return selector.Selection()
	}
	return Selection{}
}

// reference is the Source implementation behind every constructor.
type reference struct {
	kind      SourceKind
	location  string
	selection Selection
}

func (r reference) Kind() SourceKind     { return r.kind }
func (r reference) Location() string     { return r.location }
func (r reference) Selection() Selection { return r.selection }

func (r reference) String() string {
	if r.selection.Empty() {
		return r.location
	}
	return r.location + "#" + r.selection.String()
}

// WithSelection returns src narrowed to sel. Sources that are not built by
// this package keep their kind and location.
func WithSelection(src Source, sel Selection) Source {
	if src == nil {
		return nil
	}
	return reference{kind: src.Kind(), location: src.Location(), selection: sel}
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(file string) Source {
	return reference{kind: SourceKindFile, location: filepath.Clean(file)}
}

// SourceFromFS returns a Source naming a file inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return reference{kind: SourceKindFS, location: path.Clean(strings.TrimPrefix(name, "/"))}
}

// ParseURLSource validates raw and returns a Source for it. A fragment
// becomes the source's Selection and is not sent to the server.
func ParseURLSource(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("openapi: empty URL source")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("openapi: invalid URL %q: want an absolute http(s) URL", raw)
	}
	sel, err := ParseSelection(parsed.Fragment)
	if err != nil {
		return nil, err
	}
	parsed.Fragment, parsed.RawFragment = "", ""
	return reference{kind: SourceKindURL, location: parsed.String(), selection: sel}, nil
}

// SourceFromURL is ParseURLSource that panics on invalid input, for
// configuration known at compile time.
func SourceFromURL(raw string) Source {
	src, err := ParseURLSource(raw)
	if err != nil {
		panic(err)
	}
	return src
}
