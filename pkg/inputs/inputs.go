// Package inputs holds the built-in input renderers. A renderer turns a
// resolved Field into markup parts (label, control, hint, inline errors);
// Compose assembles the parts inside the wrapper element.
package inputs

import (
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/cascade"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/localize"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Renderer produces the parts of one input.
type Renderer interface {
	Render(field Field) (Parts, error)
}

// RendererFunc adapts a function into a Renderer.
type RendererFunc func(field Field) (Parts, error)

// Render calls the underlying function.
func (fn RendererFunc) Render(field Field) (Parts, error) {
	return fn(field)
}

// Parts are the fragments of one input. Bare parts are emitted without a
// wrapper, label, hint or errors.
type Parts struct {
	Label   markup.HTML
	Control markup.HTML
	Hint    markup.HTML
	Errors  markup.HTML
	Bare    bool
}

// Services are the shared collaborators renderers read. They are immutable
// once the environment is built.
type Services struct {
	Config    *config.Config
	Localizer *localize.Localizer
	Reflector *validation.Reflector
	Plugins   Plugins
	Now       func() time.Time
}

func (s *Services) now() time.Time {
	if s == nil || s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Services) config() *config.Config {
	if s == nil || s.Config == nil {
		return config.New()
	}
	return s.Config
}

func (s *Services) translate(key string, args map[string]any) (string, bool) {
	if s == nil || s.Localizer == nil {
		return localize.New(nil).Translate(s.config().Locale(), key, args)
	}
	return s.Localizer.Translate(s.config().Locale(), key, args)
}

func (s *Services) reflector() *validation.Reflector {
	if s == nil || s.Reflector == nil {
		return validation.NewReflector()
	}
	return s.Reflector
}

// Field is the input being rendered.
type Field struct {
	Context    *form.Context
	Descriptor form.Descriptor
	Options    form.Options
	Resolved   cascade.Resolved
	// Value is the current value of the submitted attribute.
	Value    any
	Services *Services
}

// Object returns the bound object, nil for object-less forms.
func (f Field) Object() any {
	if f.Context == nil {
		return nil
	}
	return f.Context.Object
}

// Multiple reports whether the control submits several values.
func (f Field) Multiple() bool {
	return f.Descriptor.Multiple(f.Options)
}

// Name returns the param name of the control.
func (f Field) Name() string {
	if name, ok := f.Options.InputHTML["name"].(string); ok && name != "" {
		return name
	}
	return f.context().InputName(f.Descriptor.InputAttribute(), f.Multiple())
}

// ID returns the DOM id of the control.
func (f Field) ID(suffix ...string) string {
	if len(suffix) == 0 {
		if id, ok := f.Options.InputHTML["id"].(string); ok && id != "" {
			return id
		}
	}
	return f.context().InputID(f.Descriptor.InputAttribute(), suffix...)
}

func (f Field) context() *form.Context {
	if f.Context == nil {
		return form.NewContext(nil, "", nil)
	}
	return f.Context
}

// Attrs returns the merged input attributes with id and name set.
func (f Field) Attrs() markup.Attrs {
	attrs := f.Resolved.InputAttrs.Clone()
	attrs["id"] = f.ID()
	attrs["name"] = f.Name()
	return attrs
}

// Column returns the declared column or a zero column.
func (f Field) Column() model.Column {
	if f.Descriptor.Column == nil {
		return model.Column{}
	}
	return *f.Descriptor.Column
}

// DefaultParts builds the label, hint and inline errors every renderer but
// hidden shares. labelFor is the id the label points at.
func DefaultParts(field Field, labelFor string, control markup.HTML) Parts {
	return Parts{
		Label:   Label(field, labelFor),
		Control: control,
		Hint:    Hint(field),
		Errors:  InlineErrors(field.Services.config().InlineErrors(), field.Resolved.Errors),
	}
}

// Label renders the label element; empty when the label is suppressed.
func Label(field Field, labelFor string) markup.HTML {
	if field.Resolved.Label == "" {
		return ""
	}
	state := "optional"
	if field.Resolved.Required {
		state = "required"
	}
	content := field.Resolved.Label
	if marker := strings.TrimSpace(string(field.Resolved.Marker)); marker != "" {
		content = markup.Join(content, " ", markup.HTML(marker))
	}
	attrs := markup.Attrs{"class": []string{field.Descriptor.Tag, state}}
	if labelFor != "" {
		attrs["for"] = labelFor
	}
	return markup.Tag("label", attrs, content)
}

// Hint renders the hint element; empty when there is none.
func Hint(field Field) markup.HTML {
	if field.Resolved.Hint == "" {
		return ""
	}
	return markup.Tag("span", markup.Attrs{"class": "hint"}, field.Resolved.Hint)
}

// InlineErrors renders messages according to mode.
func InlineErrors(mode config.InlineErrors, messages []string) markup.HTML {
	if len(messages) == 0 {
		return ""
	}
	switch mode {
	case config.InlineNone:
		return ""
	case config.InlineFirst:
		return markup.Tag("span", markup.Attrs{"class": "error"}, markup.Escape(messages[0]))
	case config.InlineList:
		items := make([]markup.HTML, 0, len(messages))
		for _, message := range messages {
			items = append(items, markup.Tag("li", nil, markup.Escape(message)))
		}
		return markup.Tag("ul", markup.Attrs{"class": "errors"}, markup.Join(items...))
	default:
		return markup.Tag("span", markup.Attrs{"class": "error"}, markup.Escape(Sentence(messages)))
	}
}

// Sentence joins messages as "a", "a and b" or "a, b, and c".
func Sentence(messages []string) string {
	switch len(messages) {
	case 0:
		return ""
	case 1:
		return messages[0]
	case 2:
		return messages[0] + " and " + messages[1]
	default:
		return strings.Join(messages[:len(messages)-1], ", ") + ", and " + messages[len(messages)-1]
	}
}

// Compose wraps parts in the wrapper element, emitting the label first and
// the rest in the configured inline order.
func Compose(field Field, parts Parts) markup.HTML {
	if parts.Bare {
		return parts.Control
	}
	content := []markup.HTML{parts.Label}
	for _, part := range field.Services.config().InlineOrder() {
		switch part {
		case config.PartInput:
			content = append(content, parts.Control)
		case config.PartHint:
			content = append(content, parts.Hint)
		case config.PartErrors:
			content = append(content, parts.Errors)
		}
	}
	attrs := field.Resolved.WrapperAttrs
	if attrs == nil {
		attrs = markup.Attrs{"class": field.Resolved.WrapperClasses}
	}
	return markup.Tag("div", attrs, markup.Join(content...))
}
