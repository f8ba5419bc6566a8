package structs

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

type tagRule struct {
	name  string
	param string
}

// tagRules is a parsed validate tag. Everything after "dive" applies to
// elements and is dropped, as are alternations ("a|b").
type tagRules []tagRule

func parseValidateTag(raw string) tagRules {
	var out tagRules
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(part, "|") {
			continue
		}
		if part == "dive" {
			break
		}
		name, param, _ := strings.Cut(part, "=")
		out = append(out, tagRule{name: name, param: param})
	}
	return out
}

func (t tagRules) get(name string) (string, bool) {
	for _, rule := range t {
		if rule.name == name {
			return rule.param, true
		}
	}
	return "", false
}

func (t tagRules) has(name string) bool {
	_, ok := t.get(name)
	return ok
}

func (t tagRules) int(name string) (int, bool) {
	raw, ok := t.get(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil
}

func (t tagRules) float(name string) (*float64, bool) {
	raw, ok := t.get(name)
	if !ok {
		return nil, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

func rulesFor(name string, typ reflect.Type, tags tagRules) []validation.Rule {
	if len(tags) == 0 {
		return nil
	}
	elem := indirectType(typ)
	var rules []validation.Rule

	if tags.has("required") {
		if elem.Kind() == reflect.Bool {
			rules = append(rules, validation.Rule{Kind: validation.Inclusion, Attribute: name, In: []string{"true"}})
		} else {
			rules = append(rules, validation.Rule{Kind: validation.Presence, Attribute: name})
		}
	}
	for _, tag := range tags {
		if rule, ok := conditionalPresence(name, tag); ok {
			rules = append(rules, rule)
		}
	}
	if values, ok := tags.get("oneof"); ok {
		rules = append(rules, validation.Rule{
			Kind:       validation.Inclusion,
			Attribute:  name,
			In:         strings.Fields(values),
			AllowBlank: tags.has("omitempty") || !tags.has("required"),
		})
	}

	switch elem.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		if rule, ok := lengthRule(name, tags); ok {
			rules = append(rules, rule)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rule, ok := numericRule(name, tags, true); ok {
			rules = append(rules, rule)
		}
	case reflect.Float32, reflect.Float64:
		if rule, ok := numericRule(name, tags, false); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// conditionalPresence maps required_if, required_unless and required_with.
// Parameters name Go struct fields, as they do for the validator.
func conditionalPresence(name string, tag tagRule) (validation.Rule, bool) {
	rule := validation.Rule{Kind: validation.Presence, Attribute: name}
	switch tag.name {
	case "required_if":
		field, value, ok := splitFieldParam(tag.param)
		if !ok {
			return validation.Rule{}, false
		}
		rule.If = fieldEquals(field, value)
	case "required_unless":
		field, value, ok := splitFieldParam(tag.param)
		if !ok {
			return validation.Rule{}, false
		}
		rule.Unless = fieldEquals(field, value)
	case "required_with":
		rule.If = fieldPresent(strings.Fields(tag.param))
	case "required_without":
		rule.Unless = fieldPresent(strings.Fields(tag.param))
	default:
		return validation.Rule{}, false
	}
	return rule, true
}

func splitFieldParam(param string) (string, string, bool) {
	parts := strings.Fields(param)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func fieldEquals(goName, want string) validation.Condition {
	return validation.Predicate(func(object any) bool {
		value, ok := goField(object, goName)
		return ok && fmt.Sprint(value) == want
	})
}

func fieldPresent(goNames []string) validation.Condition {
	return validation.Predicate(func(object any) bool {
		obj, ok := object.(*Object)
		if !ok {
			return false
		}
		for _, goName := range goNames {
			if v := obj.value.FieldByName(goName); v.IsValid() && !v.IsZero() {
				return true
			}
		}
		return false
	})
}

func goField(object any, goName string) (any, bool) {
	obj, ok := object.(*Object)
	if !ok {
		return nil, false
	}
	v := obj.value.FieldByName(goName)
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	return v.Interface(), true
}

func lengthRule(name string, tags tagRules) (validation.Rule, bool) {
	rule := validation.Rule{Kind: validation.Length, Attribute: name}
	if n, ok := tags.int("len"); ok {
		rule.Within = &validation.Bounds{Min: n, Max: n}
		return rule, true
	}
	set := false
	for _, key := range []string{"min", "gte"} {
		if n, ok := tags.int(key); ok {
			rule.Minimum = validation.Int(n)
			set = true
		}
	}
	if n, ok := tags.int("gt"); ok {
		rule.Minimum = validation.Int(n + 1)
		set = true
	}
	for _, key := range []string{"max", "lte"} {
		if n, ok := tags.int(key); ok {
			rule.Maximum = validation.Int(n)
			set = true
		}
	}
	if n, ok := tags.int("lt"); ok {
		rule.Maximum = validation.Int(n - 1)
		set = true
	}
	return rule, set
}

func numericRule(name string, tags tagRules, integer bool) (validation.Rule, bool) {
	rule := validation.Rule{Kind: validation.Numericality, Attribute: name, OnlyInteger: integer}
	set := false
	for _, key := range []string{"min", "gte"} {
		if v, ok := tags.float(key); ok {
			rule.GreaterThanOrEqualTo = v
			set = true
		}
	}
	for _, key := range []string{"max", "lte"} {
		if v, ok := tags.float(key); ok {
			rule.LessThanOrEqualTo = v
			set = true
		}
	}
	if v, ok := tags.float("gt"); ok {
		rule.GreaterThan = v
		set = true
	}
	if v, ok := tags.float("lt"); ok {
		rule.LessThan = v
		set = true
	}
	if v, ok := tags.float("len"); ok {
		rule.GreaterThanOrEqualTo, rule.LessThanOrEqualTo = v, v
		set = true
	}
	return rule, set
}
