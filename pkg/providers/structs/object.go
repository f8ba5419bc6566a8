package structs

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrUnknownAttribute is returned by Object.Attribute for names the struct
// does not expose.
var ErrUnknownAttribute = errors.New("structs: unknown attribute")

// Object binds a struct value to its Model.
type Object struct {
	model   *Model
	value   reflect.Value
	source  any
	records map[string]model.CollectionSource
	Errors  model.Errors
}

// Bind wraps a struct or a pointer to one. Pass a pointer when the struct
// implements model interfaces on its pointer receiver.
func Bind(value any) (*Object, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", ErrNotStruct, value)
		}
		rv = rv.Elem()
	}
	m, err := ModelOf(rv.Type())
	if err != nil {
		return nil, err
	}
	return &Object{model: m, value: rv, source: value, Errors: make(model.Errors)}, nil
}

// MustBind is Bind for values known to be structs.
func MustBind(value any) *Object {
	obj, err := Bind(value)
	if err != nil {
		panic(err)
	}
	return obj
}

// Value returns the bound value as passed to Bind.
func (o *Object) Value() any { return o.source }

// WithRecords supplies the candidate records of an association.
func (o *Object) WithRecords(association string, source model.CollectionSource) *Object {
	if o.records == nil {
		o.records = make(map[string]model.CollectionSource)
	}
	o.records[association] = source
	return o
}

func (o *Object) association(f field) model.Association {
	assoc := *f.assoc
	if source, ok := o.records[assoc.Name]; ok {
		assoc.Records = source
	}
	return assoc
}

func (o *Object) field(name string) (field, bool) {
	for _, f := range o.model.fields {
		if f.name == name {
			return f, true
		}
	}
	for _, f := range o.model.fields {
		if f.assoc != nil && f.assoc.Kind == model.BelongsTo && f.assoc.ForeignKey == name {
			return field{name: name, assoc: f.assoc}, true
		}
	}
	return field{}, false
}

// Attribute implements model.Reader. Nested structs are returned bound, so
// nested builders see the same collaborators. A belongs-to foreign key that
// is not a field of its own reads the associated record's id.
func (o *Object) Attribute(name string) (any, error) {
	f, ok := o.field(name)
	if !ok {
		return nil, fmt.Errorf("%w %q for %s", ErrUnknownAttribute, name, o.model.typ.Name())
	}
	if f.index == nil {
		return o.foreignKey(f.assoc.Name)
	}
	v, err := o.value.FieldByIndexErr(f.index)
	if err != nil {
		return nil, nil
	}
	if f.nested {
		return bindNested(v), nil
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, nil
	}
	return v.Interface(), nil
}

func (o *Object) foreignKey(association string) (any, error) {
	record, err := o.Attribute(association)
	if err != nil || record == nil {
		return nil, err
	}
	if reader, ok := record.(model.Reader); ok {
		return reader.Attribute("id")
	}
	if obj, err := Bind(record); err == nil {
		return obj.Attribute("id")
	}
	return nil, nil
}

func bindNested(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return bindValue(v)
	case reflect.Struct:
		if v.CanAddr() {
			return bindValue(v.Addr())
		}
		return bindValue(v)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			item := v.Index(i)
			if item.Kind() == reflect.Struct && item.CanAddr() {
				item = item.Addr()
			}
			out = append(out, bindValue(item))
		}
		return out
	default:
		return v.Interface()
	}
}

func bindValue(v reflect.Value) any {
	obj, err := Bind(v.Interface())
	if err != nil {
		return v.Interface()
	}
	return obj
}

// ColumnFor implements model.SchemaProvider.
func (o *Object) ColumnFor(attribute string) (model.Column, bool) {
	for _, f := range o.model.fields {
		if f.name == attribute && f.column != nil {
			return *f.column, true
		}
	}
	return model.Column{}, false
}

// Columns implements model.ColumnLister.
func (o *Object) Columns() []model.Column {
	var out []model.Column
	for _, f := range o.model.fields {
		if f.column != nil {
			out = append(out, *f.column)
		}
	}
	return out
}

// AssociationFor implements model.AssociationProvider.
func (o *Object) AssociationFor(attribute string) (model.Association, bool) {
	for _, f := range o.model.fields {
		if f.name == attribute && f.assoc != nil {
			return o.association(f), true
		}
	}
	return model.Association{}, false
}

// Associations implements model.AssociationLister.
func (o *Object) Associations() []model.Association {
	var out []model.Association
	for _, f := range o.model.fields {
		if f.assoc != nil {
			out = append(out, o.association(f))
		}
	}
	return out
}

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

// NewRecord implements model.Persistence. The struct's own NewRecord wins;
// otherwise a zero id means new.
func (o *Object) NewRecord() bool {
	if persistence, ok := o.source.(model.Persistence); ok {
		return persistence.NewRecord()
	}
	id, err := o.Attribute("id")
	if err != nil || id == nil {
		return true
	}
	return reflect.ValueOf(id).IsZero()
}

// ModelName implements model.Named.
func (o *Object) ModelName() string {
	if named, ok := o.source.(model.Named); ok {
		return named.ModelName()
	}
	return o.model.name
}

// HumanAttributeName implements model.Humanizer with the label form tag.
func (o *Object) HumanAttributeName(attribute string) string {
	if f, ok := o.field(attribute); ok {
		return f.human
	}
	return ""
}

// String defers to the struct's own String method, for collection labels.
func (o *Object) String() string {
	if stringer, ok := o.source.(fmt.Stringer); ok {
		return stringer.String()
	}
	return fmt.Sprint(o.value.Interface())
}
