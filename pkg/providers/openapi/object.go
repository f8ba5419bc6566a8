package openapi

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrUnknownAttribute is returned by Object.Attribute for names the schema
// does not declare.
var ErrUnknownAttribute = errors.New("openapi: unknown attribute")

// Object binds submitted values to a Model. Nested maps under has-one and
// has-many properties are bound to their target models on read.
type Object struct {
	model     *Model
	Values    map[string]any
	Errors    model.Errors
	Persisted bool
}

// New binds values to the model as a new record.
func (m *Model) New(values map[string]any) *Object {
	return &Object{model: m, Values: values, Errors: make(model.Errors)}
}

// Bind binds values to the model. A record with an "id" is persisted.
func (m *Model) Bind(values map[string]any) *Object {
	obj := m.New(values)
	if id, ok := values["id"]; ok && id != nil {
		obj.Persisted = true
	}
	return obj
}

// WithErrors maps a server error payload onto the object's attributes.
func (o *Object) WithErrors(payload map[string][]string) *Object {
	o.Errors = model.MapErrorPayload(o.attributeNames(), payload)
	return o
}

// Model returns the bound model.
func (o *Object) Model() *Model { return o.model }

// Attribute implements model.Reader.
func (o *Object) Attribute(name string) (any, error) {
	if value, ok := o.Values[name]; ok {
		return o.bindNested(name, value), nil
	}
	if _, ok := o.ColumnFor(name); ok {
		return o.model.defaults[name], nil
	}
	if _, ok := o.AssociationFor(name); ok {
		return o.model.defaults[name], nil
	}
	return nil, fmt.Errorf("%w %q for %s", ErrUnknownAttribute, name, o.model.component)
}

func (o *Object) bindNested(name string, value any) any {
	target, ok := o.model.nested[name]
	if !ok || o.model.catalog == nil {
		return value
	}
	nested, ok := o.model.catalog.models[target]
	if !ok {
		return value
	}
	switch typed := value.(type) {
	case map[string]any:
		return nested.Bind(typed)
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			if values, ok := item.(map[string]any); ok {
				out = append(out, nested.Bind(values))
				continue
			}
			out = append(out, item)
		}
		return out
	case []map[string]any:
		out := make([]any, 0, len(typed))
		for _, values := range typed {
			out = append(out, nested.Bind(values))
		}
		return out
	default:
		return value
	}
}

// ColumnFor implements model.SchemaProvider.
func (o *Object) ColumnFor(attribute string) (model.Column, bool) {
	for _, column := range o.model.columns {
		if column.Name == attribute {
			return column, true
		}
	}
	return model.Column{}, false
}

// Columns implements model.ColumnLister.
func (o *Object) Columns() []model.Column { return o.model.Columns() }

// AssociationFor implements model.AssociationProvider.
func (o *Object) AssociationFor(attribute string) (model.Association, bool) {
	for _, association := range o.model.associations {
		if association.Name == attribute {
			return association, true
		}
	}
	return model.Association{}, false
}

// Associations implements model.AssociationLister.
func (o *Object) Associations() []model.Association { return o.model.Associations() }

// ValidationRulesFor implements validation.Provider.
func (o *Object) ValidationRulesFor(attribute string) []validation.Rule {
	var out []validation.Rule
	for _, rule := range o.model.rules {
		if rule.Attribute == attribute {
			out = append(out, rule)
		}
	}
	return out
}

// ErrorsFor implements model.ErrorProvider.
func (o *Object) ErrorsFor(attribute string) []string { return o.Errors.ErrorsFor(attribute) }

// NewRecord implements model.Persistence.
func (o *Object) NewRecord() bool { return !o.Persisted }

// ModelName implements model.Named.
func (o *Object) ModelName() string { return o.model.name }

// HumanAttributeName implements model.Humanizer with the property title.
func (o *Object) HumanAttributeName(attribute string) string {
	return o.model.human[attribute]
}

func (o *Object) attributeNames() []string {
	names := make([]string, 0, len(o.model.columns)+len(o.model.associations))
	for _, column := range o.model.columns {
		names = append(names, column.Name)
	}
	for _, association := range o.model.associations {
		names = append(names, association.Name)
	}
	return names
}
