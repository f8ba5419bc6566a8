// Package structs exposes plain Go structs to the form builder. Columns come
// from field types, associations from nested structs and form tags, and
// validation rules from go-playground/validator tags, which also drive
// Object.Validate.
//
//	type Article struct {
//		ID     int64     `form:"id"`
//		Title  string    `form:"title,label=Headline" validate:"required,min=3,max=80"`
//		Status string    `validate:"oneof=draft published"`
//		Author *Author   `form:"author,assoc=belongs_to"`
//		Tags   []Tag     `form:"tags"`
//	}
package structs

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formbuilder/internal/naming"
	"github.com/goliatone/go-formbuilder/internal/reflectx"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrNotStruct is returned when binding anything but a struct or a pointer
// to one.
var ErrNotStruct = errors.New("structs: value is not a struct")

var (
	timeType    = reflect.TypeOf(time.Time{})
	durationTyp = reflect.TypeOf(time.Duration(0))
	bytesType   = reflect.TypeOf([]byte(nil))
)

// field is one exposed struct field.
type field struct {
	name   string
	index  []int
	column *model.Column
	assoc  *model.Association
	nested bool
	human  string
}

// Model is the reflected description of a struct type. Models are cached
// per type.
type Model struct {
	name   string
	typ    reflect.Type
	fields []field
	rules  []validation.Rule
}

var models sync.Map // reflect.Type -> *Model

// ModelOf returns the model of a struct type, reflecting it on first use.
func ModelOf(typ reflect.Type) (*Model, error) {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, typ)
	}
	if cached, ok := models.Load(typ); ok {
		return cached.(*Model), nil
	}
	m := reflectModel(typ)
	actual, _ := models.LoadOrStore(typ, m)
	return actual.(*Model), nil
}

// Name returns the param key, the underscored type name.
func (m *Model) Name() string { return m.name }

func reflectModel(typ reflect.Type) *Model {
	m := &Model{name: naming.Underscore(typ.Name()), typ: typ}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("form") == "" {
			embedded := reflectModel(sf.Type)
			for _, f := range embedded.fields {
				f.index = append([]int{i}, f.index...)
				m.fields = append(m.fields, f)
			}
			m.rules = append(m.rules, embedded.rules...)
			continue
		}
		name := reflectx.TagName(sf)
		if name == "" {
			continue
		}
		opts := parseFormTag(sf.Tag.Get("form"))
		validate := parseValidateTag(sf.Tag.Get("validate"))

		f := field{name: name, index: sf.Index, human: opts["label"]}
		if assoc, ok := associationFor(name, sf.Type, opts, validate); ok {
			f.assoc = &assoc
			f.nested = assoc.Kind == model.HasOne || assoc.Kind == model.HasMany
			if assoc.Kind == model.Enum {
				column := columnFor(name, sf.Type, opts, validate)
				f.column = &column
			}
		} else {
			column := columnFor(name, sf.Type, opts, validate)
			f.column = &column
		}
		m.fields = append(m.fields, f)
		m.rules = append(m.rules, rulesFor(name, sf.Type, validate)...)
	}
	return m
}

// parseFormTag reads the key=value options after the attribute name.
func parseFormTag(raw string) map[string]string {
	out := map[string]string{}
	_, rest, ok := strings.Cut(raw, ",")
	if !ok {
		return out
	}
	for _, part := range strings.Split(rest, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")
		if key != "" {
			out[key] = strings.TrimSpace(value)
		}
	}
	return out
}

func associationFor(name string, typ reflect.Type, opts map[string]string, validate tagRules) (model.Association, bool) {
	assoc := model.Association{Name: name, Target: opts["target"], ForeignKey: opts["fk"]}
	if kind := opts["assoc"]; kind != "" {
		assoc.Kind = model.AssociationKind(kind)
		if assoc.Target == "" {
			assoc.Target = targetName(typ)
		}
		if assoc.Kind == model.BelongsTo && assoc.ForeignKey == "" {
			assoc.ForeignKey = name + "_id"
		}
		return assoc, true
	}
	if values, ok := validate.get("oneof"); ok && indirectType(typ).Kind() == reflect.String {
		assoc.Kind = model.Enum
		assoc.Values = strings.Fields(values)
		return assoc, true
	}

	elem := indirectType(typ)
	switch {
	case elem.Kind() == reflect.Struct && elem != timeType:
		assoc.Kind = model.HasOne
	case (elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array) &&
		indirectType(elem.Elem()).Kind() == reflect.Struct && indirectType(elem.Elem()) != timeType:
		assoc.Kind = model.HasMany
	default:
		return model.Association{}, false
	}
	if assoc.Target == "" {
		assoc.Target = targetName(typ)
	}
	return assoc, true
}

func targetName(typ reflect.Type) string {
	elem := indirectType(typ)
	if elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array {
		elem = indirectType(elem.Elem())
	}
	return elem.Name()
}

func indirectType(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

func columnFor(name string, typ reflect.Type, opts map[string]string, validate tagRules) model.Column {
	column := model.Column{Name: name}
	if limit, err := strconv.Atoi(opts["limit"]); err == nil {
		column.Limit = limit
	}
	if declared := opts["type"]; declared != "" {
		column.Type = model.ColumnType(declared)
		return column
	}

	elem := indirectType(typ)
	switch {
	case elem == timeType:
		column.Type = model.ColumnDatetime
	case elem == durationTyp:
		column.Type = model.ColumnInteger
	case typ == bytesType:
		column.Type = model.ColumnBinary
	}
	if column.Type != "" {
		return column
	}

	switch elem.Kind() {
	case reflect.Bool:
		column.Type = model.ColumnBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		column.Type = model.ColumnInteger
	case reflect.Float32, reflect.Float64:
		column.Type = model.ColumnFloat
	case reflect.String:
		column.Type = stringType(validate)
		if column.Limit == 0 && column.Type == model.ColumnString {
			if max, ok := validate.int("max"); ok {
				column.Limit = max
			}
		}
	default:
		column.Type = model.ColumnJSON
	}
	return column
}

// stringType maps format validators to the matching input tags; unmapped
// column types pass through inference unchanged.
func stringType(validate tagRules) model.ColumnType {
	switch {
	case validate.has("email"):
		return "email"
	case validate.has("url"), validate.has("http_url"), validate.has("uri"):
		return "url"
	case validate.has("e164"):
		return "phone"
	case validate.has("hexcolor"):
		return "color"
	case validate.has("timezone"):
		return "time_zone"
	case validate.has("iso3166_1_alpha2"):
		return "country"
	case validate.has("iso4217"):
		return "currency"
	}
	return model.ColumnString
}
