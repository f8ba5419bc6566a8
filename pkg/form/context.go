package form

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/internal/naming"
	"github.com/goliatone/go-formbuilder/internal/reflectx"
	"github.com/goliatone/go-formbuilder/pkg/introspect"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Context is the state of one form or nested sub-form during a render pass:
// the bound object, its param prefix, the id namespace and the parent
// context. It is created per render and discarded afterwards.
type Context struct {
	Object any
	// Name is the full param prefix, e.g. "post" or
	// "post[author_attributes][0]".
	Name string
	// Namespace prefixes every DOM id.
	Namespace string
	// Action is the i18n action segment ("new" or "edit" by default).
	Action string
	// Defaults are applied beneath each input's own options.
	Defaults []Option
	Parent   *Context
	// Index is the position within a has-many collection, nil otherwise.
	Index *int

	model  string
	nested string
	memo   *introspect.Memo
}

// NewContext creates a root context. An empty name is derived from the
// object (model.Named, then the type name).
func NewContext(object any, name string, memo *introspect.Memo) *Context {
	name = strings.TrimSpace(name)
	if name == "" {
		name = ObjectName(object)
	}
	if memo == nil {
		memo = introspect.NewMemo(nil)
	}
	return &Context{
		Object: object,
		Name:   name,
		Action: DefaultAction(object),
		model:  name,
		memo:   memo,
	}
}

// Child creates the context of a nested form for association. Collection
// children pass their index.
func (c *Context) Child(association string, object any, index *int, memo *introspect.Memo) *Context {
	association = strings.TrimSpace(association)
	name := c.Name + "[" + association + "_attributes]"
	if index != nil {
		name += "[" + strconv.Itoa(*index) + "]"
	}
	if memo == nil {
		memo = introspect.NewMemo(nil)
	}
	return &Context{
		Object:    object,
		Name:      name,
		Namespace: c.Namespace,
		Action:    c.Action,
		Defaults:  append([]Option(nil), c.Defaults...),
		Parent:    c,
		Index:     index,
		model:     c.model,
		nested:    naming.Singularize(association),
		memo:      memo,
	}
}

// Model returns the i18n model segment of the root form.
func (c *Context) Model() string { return c.model }

// Nested returns the i18n nested-model segment, empty for root forms.
func (c *Context) Nested() string { return c.nested }

// Memo returns the per-context introspection cache.
func (c *Context) Memo() *introspect.Memo { return c.memo }

// InputName returns the param name of attribute. Multiple values get a
// trailing "[]".
func (c *Context) InputName(attribute string, multiple bool) string {
	var name string
	if c.Name == "" {
		name = attribute
	} else {
		name = c.Name + "[" + attribute + "]"
	}
	if multiple {
		name += "[]"
	}
	return name
}

// InputID returns the DOM id of attribute, with optional suffix segments.
func (c *Context) InputID(attribute string, suffix ...string) string {
	parts := []string{}
	if c.Namespace != "" {
		parts = append(parts, c.Namespace)
	}
	if base := sanitizeID(c.Name); base != "" {
		parts = append(parts, base)
	}
	parts = append(parts, sanitizeID(attribute))
	for _, s := range suffix {
		if cleaned := sanitizeID(s); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, "_")
}

// FormID returns the DOM id of the form element itself.
func (c *Context) FormID() string {
	base := sanitizeID(c.Name)
	action := "new"
	if c.Action == "edit" {
		action = "edit"
	}
	id := action + "_" + base
	if c.Namespace != "" {
		id = c.Namespace + "_" + id
	}
	return id
}

// Value reads attribute from the bound object. Errors from the object are
// returned unchanged; a nil object yields nil.
func (c *Context) Value(attribute string) (any, error) {
	if c.Object == nil {
		return nil, nil
	}
	return introspect.Value(c.Object, attribute)
}

func sanitizeID(name string) string {
	replacer := strings.NewReplacer("][", "_", "[", "_", "]", "", " ", "_", "-", "_")
	return strings.Trim(replacer.Replace(strings.TrimSpace(name)), "_")
}

// ObjectName derives the param key of object.
func ObjectName(object any) string {
	if object == nil {
		return ""
	}
	if named, ok := object.(model.Named); ok {
		if name := strings.TrimSpace(named.ModelName()); name != "" {
			return name
		}
	}
	typ := reflect.TypeOf(object)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Name() == "" {
		return ""
	}
	return naming.Underscore(typ.Name())
}

// DefaultAction returns "new" for unsaved records and "edit" otherwise.
// Objects without persistence state count as new.
func DefaultAction(object any) string {
	if persisted, ok := object.(model.Persistence); ok && !persisted.NewRecord() {
		return "edit"
	}
	return "new"
}

// Descriptor is everything known about one input before rendering.
type Descriptor struct {
	Attribute   string
	Tag         string
	Required    bool
	Column      *model.Column
	Association *model.Association
	FileLike    bool
}

// Multiple reports whether the input submits several values.
func (d Descriptor) Multiple(opts Options) bool {
	if opts.Multiple != nil {
		return *opts.Multiple
	}
	if d.Association != nil {
		return d.Association.Kind.Multiple()
	}
	return false
}

// InputAttribute is the attribute the control submits: associations submit
// their foreign key.
func (d Descriptor) InputAttribute() string {
	if d.Association == nil {
		return d.Attribute
	}
	switch {
	case d.Association.Kind == model.BelongsTo && !strings.HasSuffix(d.Attribute, "_id"):
		if d.Association.ForeignKey != "" {
			return d.Association.ForeignKey
		}
		return d.Attribute + "_id"
	case d.Association.Kind.Multiple() && !strings.HasSuffix(d.Attribute, "_ids"):
		return naming.Singularize(d.Attribute) + "_ids"
	default:
		return d.Attribute
	}
}

// Reader returns the value of member on item, used by collection and group
// accessors.
func Reader(item any, member string) (any, error) {
	if reader, ok := item.(model.Reader); ok {
		return reader.Attribute(member)
	}
	return reflectx.Member(item, member)
}
