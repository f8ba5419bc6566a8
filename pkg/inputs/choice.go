package inputs

import (
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/markup"
)

// Select renders a <select> from the resolved collection.
type Select struct{}

// Render implements Renderer.
func (Select) Render(field Field) (Parts, error) {
	groups, err := Collection(field)
	if err != nil {
		return Parts{}, err
	}
	return DefaultParts(field, field.ID(), selectTag(field, groups)), nil
}

func selectTag(field Field, groups []form.Group) markup.HTML {
	attrs := field.Attrs()
	delete(attrs, "placeholder")
	if field.Multiple() {
		attrs = attrs.Default("multiple", true)
	}
	selected := SelectedValues(field)
	single := !field.Multiple()

	var options []markup.HTML
	if lead := leadingOption(field); lead != "" {
		options = append(options, lead)
	}
	for _, group := range groups {
		rendered := make([]markup.HTML, 0, len(group.Choices))
		for _, choice := range group.Choices {
			rendered = append(rendered, optionTag(choice, selected))
			// A single select marks only the first occurrence of its value.
			if single && !choice.Disabled {
				delete(selected, choice.Value)
			}
		}
		if group.Label == "" {
			options = append(options, rendered...)
			continue
		}
		options = append(options, markup.Tag("optgroup", markup.Attrs{"label": group.Label}, markup.Join(rendered...)))
	}
	return markup.Tag("select", attrs, markup.Join(options...))
}

func optionTag(choice form.Choice, selected map[string]struct{}) markup.HTML {
	attrs := choice.Attrs.Clone()
	attrs["value"] = choice.Value
	if _, ok := selected[choice.Value]; ok {
		attrs["selected"] = true
	}
	if choice.Disabled {
		attrs["disabled"] = true
	}
	return markup.Tag("option", attrs, markup.Escape(choice.Label))
}

// leadingOption applies the blank/prompt policy: an explicit prompt wins,
// then include_blank (defaulting to the configuration, never for multiple
// selects).
func leadingOption(field Field) markup.HTML {
	prompt := field.Options.Prompt
	switch {
	case prompt.IsLiteral():
		return markup.Tag("option", markup.Attrs{"value": ""}, markup.Escape(prompt.Value()))
	case prompt.IsKey(), prompt.ForcesLookup():
		key := prompt.Value()
		if key == "" {
			key = "blank_prompt"
		}
		text, ok := field.Services.translate(key, prompt.Args())
		if !ok {
			text = key
		}
		return markup.Tag("option", markup.Attrs{"value": ""}, markup.Escape(text))
	}

	include := field.Services.config().IncludeBlankByDefault() && !field.Multiple()
	if field.Options.IncludeBlank != nil {
		include = *field.Options.IncludeBlank
	}
	if !include {
		return ""
	}
	return markup.Tag("option", markup.Attrs{"value": ""}, "")
}

// Radio renders one radio button per choice. The label points at the first
// button.
type Radio struct{}

// Render implements Renderer.
func (Radio) Render(field Field) (Parts, error) {
	groups, err := Collection(field)
	if err != nil {
		return Parts{}, err
	}
	return collectionButtons(field, groups, "radio", field.context().InputName(field.Descriptor.InputAttribute(), false), false), nil
}

// CheckBoxes renders one checkbox per choice, preceded by a hidden empty
// value so clearing every box still submits the attribute.
type CheckBoxes struct{}

// Render implements Renderer.
func (CheckBoxes) Render(field Field) (Parts, error) {
	groups, err := Collection(field)
	if err != nil {
		return Parts{}, err
	}
	return collectionButtons(field, groups, "checkbox", field.context().InputName(field.Descriptor.InputAttribute(), true), true), nil
}

func collectionButtons(field Field, groups []form.Group, kind, name string, sentinel bool) Parts {
	selected := SelectedValues(field)
	base := field.Resolved.InputAttrs.Clone()
	delete(base, "placeholder")
	delete(base, "id")
	if kind == "checkbox" {
		delete(base, "required")
		delete(base, "aria-required")
	}

	var items []markup.HTML
	if sentinel && (field.Options.IncludeHidden == nil || *field.Options.IncludeHidden) {
		items = append(items, markup.Void("input", markup.Attrs{"type": "hidden", "name": name, "value": ""}))
	}
	first := ""
	for _, group := range groups {
		buttons := make([]markup.HTML, 0, len(group.Choices))
		for _, choice := range group.Choices {
			id := field.ID(choice.Value)
			if first == "" {
				first = id
			}
			attrs := base.Merge(choice.Attrs)
			attrs["type"] = kind
			attrs["name"] = name
			attrs["id"] = id
			attrs["value"] = choice.Value
			if _, ok := selected[choice.Value]; ok {
				attrs["checked"] = true
			}
			if choice.Disabled {
				attrs["disabled"] = true
			}
			item := markup.Join(
				markup.Void("input", attrs),
				markup.Tag("label", markup.Attrs{"for": id, "class": "collection_" + kind}, markup.Escape(choice.Label)),
			)
			buttons = append(buttons, markup.Tag("span", markup.Attrs{"class": kind}, item))
		}
		if group.Label == "" {
			items = append(items, buttons...)
			continue
		}
		items = append(items, markup.Tag("fieldset", nil,
			markup.Join(markup.Tag("legend", nil, markup.Escape(group.Label)), markup.Join(buttons...))))
	}
	return DefaultParts(field, first, markup.Join(items...))
}

// Helper renders a select over a plugin-provided list. Priority entries
// (from the options or the configuration) are listed first, followed by a
// disabled separator.
type Helper struct {
	Tag        string
	Capability string
	Provider   func(Plugins) ChoiceProvider
	Priority   func(field Field) []string
}

// Separator divides priority entries from the full list.
const Separator = "-------------"

// Render implements Renderer.
func (h Helper) Render(field Field) (Parts, error) {
	var provider ChoiceProvider
	if field.Services != nil {
		provider = h.Provider(field.Services.Plugins)
	}
	if provider == nil {
		return Parts{}, &MissingCollaboratorError{Tag: h.Tag, Capability: h.Capability}
	}
	choices, err := provider.Choices(field.Services.config().Locale())
	if err != nil {
		return Parts{}, err
	}

	priority := field.Options.Priority
	if priority == nil && h.Priority != nil {
		priority = h.Priority(field)
	}
	groups := []form.Group{{Choices: prioritize(choices, priority)}}
	field.Options.Collection = nil
	return DefaultParts(field, field.ID(), selectTag(field, groups)), nil
}

func prioritize(choices []form.Choice, priority []string) []form.Choice {
	if len(priority) == 0 {
		return choices
	}
	byValue := make(map[string]form.Choice, len(choices))
	for _, choice := range choices {
		byValue[choice.Value] = choice
	}
	out := make([]form.Choice, 0, len(choices)+len(priority)+1)
	for _, value := range priority {
		if choice, ok := byValue[value]; ok {
			out = append(out, choice)
		}
	}
	if len(out) == 0 {
		return choices
	}
	out = append(out, form.Choice{Label: Separator, Value: "", Disabled: true})
	return append(out, choices...)
}
