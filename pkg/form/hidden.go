package form

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/markup"
)

// MethodField is the hidden input browsers submit in place of PUT, PATCH and
// DELETE.
const MethodField = "_method"

// HiddenField is a hidden input emitted at the top of a form.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: markup.Stringify(value),
	}
}

// CSRFToken carries a request forgery token under the backend's field name
// (for example "_csrf" or "authenticity_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField carries a lock version for optimistic locking.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// SplitMethod maps an HTTP verb onto the verb a browser form can submit and
// the override field it needs, if any.
func SplitMethod(method string) (formMethod string, override *HiddenField) {
	switch verb := strings.ToLower(strings.TrimSpace(method)); verb {
	case "", "post":
		return "post", nil
	case "get":
		return "get", nil
	default:
		field := Hidden(MethodField, verb)
		return "post", &field
	}
}

// MergeHiddenFields returns base with fields applied. Empty names are ignored;
// later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders fields by name for deterministic output. The
// method override always comes first.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == MethodField || names[j] == MethodField {
			return names[i] == MethodField && names[j] != MethodField
		}
		return names[i] < names[j]
	})

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return result
}

// RenderHidden emits the fields as hidden inputs.
func RenderHidden(fields []HiddenField) markup.HTML {
	parts := make([]markup.HTML, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, markup.Void("input", markup.Attrs{
			"type":  "hidden",
			"name":  field.Name,
			"value": field.Value,
		}))
	}
	return markup.Join(parts...)
}
