// Package introspect describes a single attribute of a bound object: its
// declared column, its association and whether its current value looks like
// an attached file.
//
// File detection is duck-typed: any value exposing one of the configured
// marker members (Filename, OriginalFilename, ContentType by default) is
// treated as a file. Unrelated values that happen to expose members with
// those names are misdetected; pass an explicit type to opt out.
package introspect

import (
	"reflect"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/internal/naming"
	"github.com/goliatone/go-formbuilder/internal/reflectx"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// DefaultFileMarkers are the member names that mark a value as a file.
var DefaultFileMarkers = []string{"Filename", "OriginalFilename", "ContentType"}

// Description is the metadata known about one attribute.
type Description struct {
	Column      *model.Column
	Association *model.Association
	FileLike    bool
}

// Introspector reads attribute metadata. It has no side effects and may be
// called speculatively.
type Introspector struct {
	markers []string
}

// New returns an Introspector using markers, or DefaultFileMarkers when none
// are given.
func New(markers ...string) *Introspector {
	clean := make([]string, 0, len(markers))
	for _, marker := range markers {
		if trimmed := strings.TrimSpace(marker); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	if len(clean) == 0 {
		clean = append(clean, DefaultFileMarkers...)
	}
	return &Introspector{markers: clean}
}

// Markers returns a copy of the configured file marker names.
func (i *Introspector) Markers() []string {
	return append([]string(nil), i.markers...)
}

// Describe collects column, association and file-likeness for attribute. as
// is the caller's explicit type; any value other than "" or "file" disables
// file detection.
func (i *Introspector) Describe(object any, attribute, as string) Description {
	return Description{
		Column:      ColumnFor(object, attribute),
		Association: AssociationFor(object, attribute),
		FileLike:    i.FileLike(object, attribute, as),
	}
}

// ColumnFor returns the declared column, or nil when the object has no schema
// or the attribute is virtual.
func ColumnFor(object any, attribute string) *model.Column {
	schema, ok := object.(model.SchemaProvider)
	if !ok {
		return nil
	}
	column, ok := schema.ColumnFor(attribute)
	if !ok {
		return nil
	}
	if column.Name == "" {
		column.Name = attribute
	}
	return &column
}

// AssociationFor looks the association up by attribute, then by the
// attribute with its foreign key suffix removed, then by declared foreign
// key.
func AssociationFor(object any, attribute string) *model.Association {
	provider, ok := object.(model.AssociationProvider)
	if !ok {
		return nil
	}
	for _, name := range associationNames(attribute) {
		if association, ok := provider.AssociationFor(name); ok {
			return &association
		}
	}
	lister, ok := object.(model.AssociationLister)
	if !ok {
		return nil
	}
	for _, association := range lister.Associations() {
		if association.ForeignKey != "" && association.ForeignKey == attribute {
			found := association
			return &found
		}
	}
	return nil
}

func associationNames(attribute string) []string {
	names := []string{attribute}
	if name, ok := naming.AssociationForKey(attribute); ok {
		names = append(names, name)
	}
	return names
}

// FileLike reports whether the attribute's current value exposes a file
// marker member and is not itself a string.
func (i *Introspector) FileLike(object any, attribute, as string) bool {
	if as != "" && as != "file" {
		return false
	}
	if object == nil {
		return false
	}
	value, err := Value(object, attribute)
	if err != nil || value == nil {
		return false
	}
	rv := reflectx.Indirect(reflect.ValueOf(value))
	if !rv.IsValid() || rv.Kind() == reflect.String {
		return false
	}
	for _, marker := range i.markers {
		if reflectx.HasMember(value, marker) {
			return true
		}
	}
	return false
}

// Value reads the attribute through model.Reader when implemented and by
// reflection otherwise. Errors from the object are returned unchanged.
func Value(object any, attribute string) (any, error) {
	if reader, ok := object.(model.Reader); ok {
		return reader.Attribute(attribute)
	}
	return reflectx.Member(object, attribute)
}

// Memo caches file detection for the lifetime of one form context.
type Memo struct {
	introspector *Introspector
	mu           sync.Mutex
	files        map[string]bool
}

// NewMemo wraps introspector with a per-context cache.
func NewMemo(introspector *Introspector) *Memo {
	if introspector == nil {
		introspector = New()
	}
	return &Memo{introspector: introspector, files: make(map[string]bool)}
}

// Describe is Introspector.Describe with file detection memoized per
// attribute.
func (m *Memo) Describe(object any, attribute, as string) Description {
	return Description{
		Column:      ColumnFor(object, attribute),
		Association: AssociationFor(object, attribute),
		FileLike:    m.FileLike(object, attribute, as),
	}
}

// FileLike memoizes Introspector.FileLike. The explicit type is checked on
// every call so only the reflective lookup is cached.
func (m *Memo) FileLike(object any, attribute, as string) bool {
	if as != "" && as != "file" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.files[attribute]; ok {
		return cached
	}
	result := m.introspector.FileLike(object, attribute, "")
	m.files[attribute] = result
	return result
}
