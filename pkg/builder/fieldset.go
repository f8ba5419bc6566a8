package builder

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/introspect"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Content produces the body of a fieldset or form. Block and StaticBlock
// implement it.
type Content interface {
	render(b *Builder) (markup.HTML, error)
	takesBuilder() bool
}

// Block renders content with the (possibly nested) builder in scope.
type Block func(b *Builder) (markup.HTML, error)

func (fn Block) render(b *Builder) (markup.HTML, error) { return fn(b) }
func (Block) takesBuilder() bool                        { return true }

// StaticBlock renders content that needs no builder. It cannot be used for
// nested inputs.
type StaticBlock func() (markup.HTML, error)

func (fn StaticBlock) render(*Builder) (markup.HTML, error) { return fn() }
func (StaticBlock) takesBuilder() bool                      { return false }

// FieldsetOption configures Inputs and InputsFor.
type FieldsetOption func(*fieldset)

type fieldset struct {
	legend form.Text
	attrs  markup.Attrs
	assoc  string
}

// Legend sets the fieldset legend.
func Legend(text string) FieldsetOption {
	return LegendText(form.Literal(text))
}

// LegendText sets the legend from a literal or a translation key.
func LegendText(text form.Text) FieldsetOption {
	return func(f *fieldset) { f.legend = text }
}

// FieldsetHTML merges attrs onto the fieldset element.
func FieldsetHTML(attrs markup.Attrs) FieldsetOption {
	return func(f *fieldset) { f.attrs = f.attrs.Merge(attrs) }
}

// For renders the fieldset once per record of association, with a nested
// builder.
func For(association string) FieldsetOption {
	return func(f *fieldset) { f.assoc = strings.TrimSpace(association) }
}

func collectFieldset(opts []FieldsetOption) fieldset {
	var f fieldset
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// withoutFor re-applies opts minus For, for the nested builder.
func withoutFor(f fieldset) []FieldsetOption {
	return []FieldsetOption{func(inner *fieldset) {
		inner.legend = f.legend
		inner.attrs = f.attrs
	}}
}

// Inputs renders a fieldset holding an input for each attribute, or for
// Attributes() when none are listed.
func (b *Builder) Inputs(attributes []string, opts ...FieldsetOption) (markup.HTML, error) {
	settings := collectFieldset(opts)
	if settings.assoc != "" {
		nested := withoutFor(settings)
		return b.FieldsFor(settings.assoc, func(child *Builder) (markup.HTML, error) {
			return child.Inputs(attributes, nested...)
		})
	}

	if len(attributes) == 0 {
		attributes = b.Attributes()
	}
	rendered := make([]markup.HTML, 0, len(attributes))
	for _, attribute := range attributes {
		html, err := b.Input(attribute)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, html)
	}
	return b.fieldset(settings, markup.Join(rendered...)), nil
}

// InputsFor renders a fieldset around content. With For, content must be a
// Block; a StaticBlock fails with ErrBlockArgumentRequired before anything
// is rendered.
func (b *Builder) InputsFor(content Content, opts ...FieldsetOption) (markup.HTML, error) {
	settings := collectFieldset(opts)
	if settings.assoc != "" {
		if content == nil || !content.takesBuilder() {
			return "", ErrBlockArgumentRequired
		}
		nested := withoutFor(settings)
		return b.FieldsFor(settings.assoc, func(child *Builder) (markup.HTML, error) {
			return child.InputsFor(content, nested...)
		})
	}
	if content == nil {
		return b.fieldset(settings, ""), nil
	}
	body, err := content.render(b)
	if err != nil {
		return "", err
	}
	return b.fieldset(settings, body), nil
}

func (b *Builder) fieldset(settings fieldset, body markup.HTML) markup.HTML {
	attrs := settings.attrs.Clone()
	attrs["class"] = markup.Classes("inputs", settings.attrs["class"])
	var legend markup.HTML
	if text := b.legend(settings.legend); text != "" {
		legend = markup.Tag("legend", nil, markup.Tag("span", nil, markup.Escape(text)))
	}
	return markup.Tag("fieldset", attrs, markup.Join(legend, body))
}

func (b *Builder) legend(text form.Text) string {
	switch {
	case text.IsLiteral():
		return text.Value()
	case text.IsKey():
		value, ok := b.env.localizer.TranslateKey(b.env.cfg.Locale(), text.Value(), text.Args())
		if !ok {
			return text.Value()
		}
		return value
	default:
		return ""
	}
}

// FieldsFor renders block with a nested builder for association. Collections
// render once per record with an index in the param name; persisted records
// carry a hidden id.
func (b *Builder) FieldsFor(association string, block Block) (markup.HTML, error) {
	if block == nil {
		return "", ErrBlockArgumentRequired
	}
	association = strings.TrimSpace(association)
	value, err := b.ctx.Value(association)
	if err != nil {
		return "", err
	}

	multiple := false
	if assoc := introspect.AssociationFor(b.ctx.Object, association); assoc != nil {
		multiple = assoc.Kind.Multiple()
	}
	rv := reflect.ValueOf(value)
	if value != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		multiple = true
	}

	if !multiple {
		return b.nested(b.child(association, value, nil), block)
	}
	if value == nil {
		return "", nil
	}
	parts := make([]markup.HTML, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		index := i
		html, err := b.nested(b.child(association, rv.Index(i).Interface(), &index), block)
		if err != nil {
			return "", err
		}
		parts = append(parts, html)
	}
	return markup.Join(parts...), nil
}

func (b *Builder) nested(child *Builder, block Block) (markup.HTML, error) {
	body, err := block(child)
	if err != nil {
		return "", err
	}
	persisted, ok := child.ctx.Object.(model.Persistence)
	if !ok || persisted.NewRecord() {
		return body, nil
	}
	id, err := child.ctx.Value("id")
	if err != nil || id == nil {
		return body, nil
	}
	hidden := markup.Void("input", markup.Attrs{
		"type":  "hidden",
		"id":    child.ctx.InputID("id"),
		"name":  child.ctx.InputName("id", false),
		"value": markup.Stringify(id),
	})
	return markup.Join(body, hidden), nil
}
