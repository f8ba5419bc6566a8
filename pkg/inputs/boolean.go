package inputs

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/markup"
)

// Boolean renders a checkbox preceded by a hidden input carrying the
// unchecked value, so unchecked boxes still submit.
type Boolean struct{}

// Render implements Renderer.
func (Boolean) Render(field Field) (Parts, error) {
	checked, unchecked := field.Options.CheckedValue, field.Options.UncheckedValue
	if checked == "" {
		checked = "1"
	}
	if unchecked == "" {
		unchecked = "0"
	}

	attrs := field.Attrs().Default("type", "checkbox").Default("value", checked)
	if Truthy(field.Value, checked) {
		attrs = attrs.Default("checked", true)
	}

	var sentinel markup.HTML
	if field.Options.IncludeHidden == nil || *field.Options.IncludeHidden {
		sentinel = markup.Void("input", markup.Attrs{
			"type":  "hidden",
			"name":  field.Name(),
			"value": unchecked,
		})
	}
	control := markup.Join(sentinel, markup.Void("input", attrs))
	return DefaultParts(field, field.ID(), control), nil
}

// Truthy interprets the current value of a boolean attribute.
func Truthy(value any, checked string) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case *bool:
		return typed != nil && *typed
	}
	s := strings.ToLower(strings.TrimSpace(markup.Stringify(value)))
	switch s {
	case "1", "t", "true", "on", "yes", "y":
		return true
	}
	return checked != "" && s == strings.ToLower(checked)
}

// BooleanChoices is the localized yes/no collection used when a boolean
// attribute renders as a select or radio group.
func BooleanChoices(services *Services) []form.Choice {
	yes, ok := services.translate("yes", nil)
	if !ok {
		yes = "Yes"
	}
	no, ok := services.translate("no", nil)
	if !ok {
		no = "No"
	}
	return []form.Choice{{Label: yes, Value: "true"}, {Label: no, Value: "false"}}
}
