// Package reflectx resolves attribute names against arbitrary Go values:
// exported fields (by name, snake_case name or struct tag) and zero-argument
// methods.
package reflectx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/internal/naming"
)

// ErrNoMember reports that a value has no field or method for a name.
var ErrNoMember = errors.New("reflectx: no such member")

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Indirect dereferences pointers and interfaces until it reaches a concrete
// value. The returned value is invalid when a nil pointer is encountered.
func Indirect(value reflect.Value) reflect.Value {
	for value.IsValid() && (value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface) {
		if value.IsNil() {
			return reflect.Value{}
		}
		value = value.Elem()
	}
	return value
}

// Candidates returns the Go identifiers tried for an attribute name.
func Candidates(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	out := []string{name}
	for _, candidate := range []string{naming.Initialism(name), naming.Camelize(name)} {
		if candidate != "" && candidate != out[len(out)-1] && candidate != name {
			out = append(out, candidate)
		}
	}
	return out
}

// Member returns the value of the field or zero-argument method matching
// name. Methods returning (value, error) surface their error.
func Member(obj any, name string) (any, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w %q on nil", ErrNoMember, name)
	}
	root := reflect.ValueOf(obj)

	for _, candidate := range Candidates(name) {
		if method := root.MethodByName(candidate); method.IsValid() {
			if out, ok, err := callAccessor(method); ok {
				return out, err
			}
		}
	}

	value := Indirect(root)
	if !value.IsValid() {
		return nil, fmt.Errorf("%w %q on nil %T", ErrNoMember, name, obj)
	}
	if value.Kind() == reflect.Map && value.Type().Key().Kind() == reflect.String {
		entry := value.MapIndex(reflect.ValueOf(name).Convert(value.Type().Key()))
		if !entry.IsValid() {
			return nil, fmt.Errorf("%w %q in %T", ErrNoMember, name, obj)
		}
		return entry.Interface(), nil
	}
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w %q on %T", ErrNoMember, name, obj)
	}

	if index, ok := fieldIndex(value.Type(), name); ok {
		field, err := value.FieldByIndexErr(index)
		if err != nil {
			return nil, nil
		}
		return field.Interface(), nil
	}
	return nil, fmt.Errorf("%w %q on %T", ErrNoMember, name, obj)
}

// HasMember reports whether obj exposes a field or method called name. Only
// exact identifiers are considered; this is the duck-typing check used for
// file detection.
func HasMember(obj any, name string) bool {
	if obj == nil || name == "" {
		return false
	}
	root := reflect.ValueOf(obj)
	if root.MethodByName(name).IsValid() {
		return true
	}
	value := Indirect(root)
	if !value.IsValid() || value.Kind() != reflect.Struct {
		return false
	}
	_, ok := value.Type().FieldByName(name)
	return ok
}

func callAccessor(method reflect.Value) (any, bool, error) {
	typ := method.Type()
	if typ.NumIn() != 0 {
		return nil, false, nil
	}
	switch typ.NumOut() {
	case 1:
		return method.Call(nil)[0].Interface(), true, nil
	case 2:
		if !typ.Out(1).Implements(errorType) {
			return nil, false, nil
		}
		out := method.Call(nil)
		if errValue := out[1]; !errValue.IsNil() {
			return nil, true, errValue.Interface().(error)
		}
		return out[0].Interface(), true, nil
	default:
		return nil, false, nil
	}
}

type fieldKey struct {
	typ  reflect.Type
	name string
}

var fieldCache sync.Map

// fieldIndex locates a struct field by exact name, CamelCase candidates or
// the first segment of its form/json tag.
func fieldIndex(typ reflect.Type, name string) ([]int, bool) {
	key := fieldKey{typ: typ, name: name}
	if cached, ok := fieldCache.Load(key); ok {
		index, _ := cached.([]int)
		return index, index != nil
	}

	index := lookupFieldIndex(typ, name)
	fieldCache.Store(key, index)
	return index, index != nil
}

func lookupFieldIndex(typ reflect.Type, name string) []int {
	for _, candidate := range Candidates(name) {
		if field, ok := typ.FieldByName(candidate); ok && field.IsExported() && TagName(field) != "" {
			return field.Index
		}
	}
	for _, field := range reflect.VisibleFields(typ) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		if TagName(field) == name {
			return field.Index
		}
	}
	return nil
}

// TagName returns the attribute name a struct field is exposed under: the
// first segment of its form tag, then its json tag, then its snake_case name.
// "-" marks a field as hidden and yields an empty string.
func TagName(field reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		raw, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		head, _, _ := strings.Cut(raw, ",")
		head = strings.TrimSpace(head)
		if head == "-" {
			return ""
		}
		if head != "" {
			return head
		}
	}
	return naming.Underscore(field.Name)
}
