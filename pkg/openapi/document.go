package openapi

import (
	"bytes"
	"errors"
)

// Source identifies where an OpenAPI document comes from.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Format is the serialization of a document payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a raw OpenAPI payload, its origin and the form selection its
// source carried.
type Document struct {
	source Source
	raw    []byte
	format Format
}

// NewDocument wraps raw. Both arguments are required; a payload made only of
// whitespace counts as empty.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	format := FormatYAML
	if trimmed[0] == '{' {
		format = FormatJSON
	}
	return Document{source: src, raw: append([]byte(nil), raw...), format: format}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin of the document.
func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte { return append([]byte(nil), d.raw...) }

// Format reports whether the payload is JSON or YAML.
func (d Document) Format() Format { return d.format }

// Selection returns the model or operation the source selected.
func (d Document) Selection() Selection { return SelectionOf(d.source) }

// Location returns the origin as a string.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
