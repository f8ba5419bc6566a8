package inputs

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/goliatone/go-formbuilder/internal/naming"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Members tried, in order, when no value or label accessor is given.
var (
	DefaultValueMembers = []string{"id"}
	DefaultLabelMembers = []string{"to_label", "name", "title", "label"}
)

// Collection resolves the choices of a collection input into groups. An
// ungrouped collection yields a single group with an empty label.
//
// Supported sources, in order: the collection option (a model.CollectionSource,
// a map, or a slice of form.Choice, two-element pairs, scalars or records);
// the association's lazy record source; the enum values; yes/no for boolean
// columns.
func Collection(field Field) ([]form.Group, error) {
	items, err := collectionItems(field)
	if err != nil {
		return nil, err
	}

	disabled := stringSet(field.Options.Disabled)
	if field.Options.GroupBy == "" {
		choices := make([]form.Choice, 0, len(items))
		for _, item := range items {
			choice, err := toChoice(field, item)
			if err != nil {
				return nil, err
			}
			if _, ok := disabled[choice.Value]; ok {
				choice.Disabled = true
			}
			choices = append(choices, choice)
		}
		return []form.Group{{Choices: choices}}, nil
	}

	var groups []form.Group
	index := make(map[string]int)
	for _, item := range items {
		groupValue, err := form.Reader(item, field.Options.GroupBy)
		if err != nil {
			return nil, err
		}
		label, err := groupLabel(groupValue, field.Options.GroupLabel)
		if err != nil {
			return nil, err
		}
		choice, err := toChoice(field, item)
		if err != nil {
			return nil, err
		}
		if _, ok := disabled[choice.Value]; ok {
			choice.Disabled = true
		}
		pos, ok := index[label]
		if !ok {
			pos = len(groups)
			index[label] = pos
			groups = append(groups, form.Group{Label: label})
		}
		groups[pos].Choices = append(groups[pos].Choices, choice)
	}
	return groups, nil
}

func groupLabel(value any, member string) (string, error) {
	if member == "" || isScalar(value) {
		return markup.Stringify(value), nil
	}
	label, err := form.Reader(value, member)
	if err != nil {
		return "", err
	}
	return markup.Stringify(label), nil
}

func collectionItems(field Field) ([]any, error) {
	source := field.Options.Collection
	if source == nil {
		return implicitItems(field)
	}
	if lazy, ok := source.(model.CollectionSource); ok {
		return lazy.Collection()
	}

	rv := reflect.ValueOf(source)
	switch rv.Kind() {
	case reflect.Map:
		return mapItems(rv), nil
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, nil
	default:
		return nil, fmt.Errorf("inputs: unsupported collection %T for %q", source, field.Descriptor.Attribute)
	}
}

func implicitItems(field Field) ([]any, error) {
	if assoc := field.Descriptor.Association; assoc != nil {
		switch {
		case assoc.Kind == model.Enum:
			items := make([]any, 0, len(assoc.Values))
			for _, value := range assoc.Values {
				items = append(items, form.Choice{Label: naming.Humanize(value), Value: value})
			}
			return items, nil
		case assoc.Records != nil:
			return assoc.Records.Collection()
		}
		return nil, nil
	}
	if field.Column().Type == model.ColumnBoolean {
		choices := BooleanChoices(field.Services)
		items := make([]any, len(choices))
		for i, choice := range choices {
			items[i] = choice
		}
		return items, nil
	}
	return nil, nil
}

// mapItems turns a map into label/value pairs ordered by label.
func mapItems(rv reflect.Value) []any {
	pairs := make([]form.Choice, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, form.Pair(markup.Stringify(iter.Key().Interface()), iter.Value().Interface()))
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Label < pairs[j].Label })
	items := make([]any, len(pairs))
	for i, pair := range pairs {
		items[i] = pair
	}
	return items
}

func toChoice(field Field, item any) (form.Choice, error) {
	switch typed := item.(type) {
	case form.Choice:
		return typed, nil
	case *form.Choice:
		return *typed, nil
	}
	if pair, ok := asPair(item); ok {
		return form.Pair(markup.Stringify(pair[0]), pair[1]), nil
	}
	if isScalar(item) {
		s := markup.Stringify(item)
		return form.Choice{Label: s, Value: s}, nil
	}

	value, err := accessor(item, field.Options.ValueFunc, field.Options.ValueMethod, DefaultValueMembers)
	if err != nil {
		return form.Choice{}, err
	}
	label, err := accessor(item, field.Options.LabelFunc, field.Options.LabelMethod, DefaultLabelMembers)
	if err != nil {
		return form.Choice{}, err
	}
	return form.Choice{Label: label, Value: value}, nil
}

// accessor reads one collection item member. An explicit member must exist;
// defaults are tried in order, falling back to the item's string form.
func accessor(item any, fn func(any) string, member string, defaults []string) (string, error) {
	if fn != nil {
		return fn(item), nil
	}
	if member != "" {
		value, err := form.Reader(item, member)
		if err != nil {
			return "", err
		}
		return markup.Stringify(value), nil
	}
	for _, candidate := range defaults {
		if value, err := form.Reader(item, candidate); err == nil && value != nil {
			return markup.Stringify(value), nil
		}
	}
	return markup.Stringify(item), nil
}

func asPair(item any) ([2]any, bool) {
	rv := reflect.ValueOf(item)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return [2]any{}, false
	}
	if rv.Len() != 2 {
		return [2]any{}, false
	}
	return [2]any{rv.Index(0).Interface(), rv.Index(1).Interface()}, true
}

func isScalar(value any) bool {
	if value == nil {
		return true
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func stringSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		out[value] = struct{}{}
	}
	return out
}

// SelectedValues returns the values that should be marked selected: the
// explicit selection when given, otherwise the current value (each element
// for slices).
func SelectedValues(field Field) map[string]struct{} {
	if field.Options.Selected != nil {
		return stringSet(field.Options.Selected)
	}
	out := make(map[string]struct{})
	value := field.Value
	if value == nil {
		return out
	}
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		for i := 0; i < rv.Len(); i++ {
			if s := markup.Stringify(rv.Index(i).Interface()); s != "" {
				out[s] = struct{}{}
			}
		}
		return out
	}
	if s := markup.Stringify(value); s != "" {
		out[s] = struct{}{}
	}
	return out
}
